package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTracker(t *testing.T) (*StateTracker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, "mailotp:"), mr
}

func TestStateTracker_ExecOnce(t *testing.T) {
	// Arrange
	tr, _ := newTracker(t)
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	// Act
	first := tr.Exec(ctx, "evt-1", fn)
	second := tr.Exec(ctx, "evt-1", fn)

	// Assert
	if first != nil {
		t.Fatalf("first Exec() error = %v", first)
	}
	if !errors.Is(second, ErrAlreadyCompleted) {
		t.Fatalf("second Exec() error = %v, want %v", second, ErrAlreadyCompleted)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}

func TestStateTracker_ExecFailureIsRecorded(t *testing.T) {
	// Arrange
	tr, mr := newTracker(t)
	ctx := context.Background()
	errSend := errors.New("smtp down")

	// Act
	err := tr.Exec(ctx, "evt-2", func(context.Context) error { return errSend }, WithStateTTL(time.Minute))
	again := tr.Exec(ctx, "evt-2", func(context.Context) error { return nil })

	// Assert
	if !errors.Is(err, errSend) {
		t.Fatalf("Exec() error = %v, want %v", err, errSend)
	}
	if !errors.Is(again, ErrAlreadyFailed) {
		t.Fatalf("Exec() after failure error = %v, want %v", again, ErrAlreadyFailed)
	}

	mr.FastForward(2 * time.Minute)
	if err := tr.Exec(ctx, "evt-2", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Exec() after ttl error = %v, want nil", err)
	}
}

func TestStateTracker_InProgress(t *testing.T) {
	// Arrange
	tr, mr := newTracker(t)
	ctx := context.Background()

	// Act
	state, err := tr.Acquire(ctx, "evt-3", time.Minute)
	busy := tr.Exec(ctx, "evt-3", func(context.Context) error { return nil })

	// Assert
	if err != nil || state != StateNone {
		t.Fatalf("Acquire() = %v, %v; want %v, nil", state, err, StateNone)
	}
	if !errors.Is(busy, ErrAlreadyInProgress) {
		t.Fatalf("Exec() error = %v, want %v", busy, ErrAlreadyInProgress)
	}
	if !mr.Exists("mailotp:idempotency:evt-3") {
		t.Fatal("state key not stored under prefix")
	}
}

func TestStateTracker_ReleaseOnFailure(t *testing.T) {
	// Arrange
	tr, _ := newTracker(t)
	ctx := context.Background()
	errSend := errors.New("smtp down")
	calls := 0

	// Act
	err := tr.Exec(ctx, "evt-4", func(context.Context) error {
		calls++
		return errSend
	}, WithReleaseOnFailure())
	retry := tr.Exec(ctx, "evt-4", func(context.Context) error {
		calls++
		return nil
	}, WithReleaseOnFailure())

	// Assert
	if !errors.Is(err, errSend) {
		t.Fatalf("Exec() error = %v, want %v", err, errSend)
	}
	if retry != nil {
		t.Fatalf("retry Exec() error = %v, want nil", retry)
	}
	if calls != 2 {
		t.Fatalf("fn called %d times, want 2", calls)
	}
}
