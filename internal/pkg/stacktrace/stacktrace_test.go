package stacktrace

import "testing"

func TestInternalPaths(t *testing.T) {
	// Arrange
	stack := []byte("goroutine 1 [running]:\n" +
		"runtime/debug.Stack()\n" +
		"\t/usr/local/go/src/runtime/debug/stack.go:26 +0x5e\n" +
		"github.com/shandysiswandi/mailotp/internal/emailverify/usecase.(*Usecase).Sweep(...)\n" +
		"\t/src/mailotp/internal/emailverify/usecase/sweep.go:31 +0x1a\n")

	// Act
	paths := InternalPaths(stack)

	// Assert
	if len(paths) != 1 {
		t.Fatalf("InternalPaths() = %v, want one frame", paths)
	}
	if paths[0] != "internal/emailverify/usecase/sweep.go:31" {
		t.Fatalf("InternalPaths()[0] = %q", paths[0])
	}
}
