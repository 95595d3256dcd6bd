package clock

import (
	"testing"
	"time"
)

func TestMock(t *testing.T) {

	// Arrange
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMock(start)

	// Act
	c.Advance(301 * time.Second)

	// Assert
	if got := c.Now(); !got.Equal(start.Add(301 * time.Second)) {
		t.Fatalf("Now() = %v, want %v", got, start.Add(301*time.Second))
	}

	c.Set(start)
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() after Set = %v, want %v", got, start)
	}
}
