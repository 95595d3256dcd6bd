package goroutine

import (
	"context"
	"errors"
	"testing"
)

func TestManager_CollectsErrors(t *testing.T) {
	// Arrange
	m := NewManager(4)
	errA := errors.New("a")

	// Act
	m.Go(context.Background(), func(context.Context) error { return errA })
	m.Go(context.Background(), func(context.Context) error { return nil })
	err := m.Wait()

	// Assert
	if !errors.Is(err, errA) {
		t.Fatalf("Wait() error = %v, want %v", err, errA)
	}
}

func TestManager_RecoversPanic(t *testing.T) {
	// Arrange
	m := NewManager(1)

	// Act
	started := m.Go(context.Background(), func(context.Context) error { panic("boom") })
	err := m.Wait()

	// Assert
	if !started {
		t.Fatal("Go() = false, want true")
	}
	if err != nil {
		t.Fatalf("Wait() error = %v, want nil", err)
	}
}

func TestManager_Limit(t *testing.T) {
	// Arrange
	m := NewManager(1)
	release := make(chan struct{})
	m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	})

	// Act
	started := m.Go(context.Background(), func(context.Context) error { return nil })
	close(release)

	// Assert
	if started {
		t.Fatal("Go() = true at the limit, want false")
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestManager_ClosedAndCanceled(t *testing.T) {
	// Arrange
	m := NewManager(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false

	// Act
	m.Go(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	_ = m.Wait()
	startedAfterWait := m.Go(context.Background(), func(context.Context) error { return nil })

	// Assert
	if ran {
		t.Fatal("task ran with a canceled context")
	}
	if startedAfterWait {
		t.Fatal("Go() after Wait = true, want false")
	}
}
