package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
)

type allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

func runLimiterBehaviour(t *testing.T, build func(t *testing.T) (allower, func(time.Duration))) {
	ctx := context.Background()

	t.Run("sixth request in window is denied", func(t *testing.T) {
		// Arrange
		l, _ := build(t)

		// Act
		var got []bool
		for range 6 {
			ok, err := l.Allow(ctx, "203.0.113.7")
			if err != nil {
				t.Fatalf("Allow() error = %v", err)
			}
			got = append(got, ok)
		}

		// Assert
		want := []bool{true, true, true, true, true, false}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("request %d allowed = %v, want %v", i+1, got[i], want[i])
			}
		}
	})

	t.Run("new window after elapse", func(t *testing.T) {
		// Arrange
		l, advance := build(t)
		for range 6 {
			if _, err := l.Allow(ctx, "203.0.113.7"); err != nil {
				t.Fatalf("Allow() error = %v", err)
			}
		}

		// Act
		advance(61 * time.Second)
		ok, err := l.Allow(ctx, "203.0.113.7")

		// Assert
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !ok {
			t.Fatal("Allow() = false after window elapsed, want true")
		}
	})

	t.Run("origins are independent", func(t *testing.T) {
		// Arrange
		l, _ := build(t)
		for range 6 {
			if _, err := l.Allow(ctx, "203.0.113.7"); err != nil {
				t.Fatalf("Allow() error = %v", err)
			}
		}

		// Act
		ok, err := l.Allow(ctx, "198.51.100.1")

		// Assert
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !ok {
			t.Fatal("Allow() for another origin = false, want true")
		}
	})
}

func TestMemory(t *testing.T) {
	runLimiterBehaviour(t, func(t *testing.T) (allower, func(time.Duration)) {
		clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		return NewMemory(Options{Window: time.Minute, Max: 5, Clock: clk}), clk.Advance
	})
}

func TestMemory_WindowBoundary(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l := NewMemory(Options{Window: time.Minute, Max: 1, Clock: clk})
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("first Allow() = false, want true")
	}

	// Act
	clk.Advance(59 * time.Second)
	inside, _ := l.Allow(ctx, "k")
	clk.Advance(time.Second)
	atBoundary, _ := l.Allow(ctx, "k")

	// Assert
	if inside {
		t.Fatal("Allow() inside window = true, want false")
	}
	if !atBoundary {
		t.Fatal("Allow() at windowStart+window = false, want true")
	}
}

func TestMemory_Sweep(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l := NewMemory(Options{Window: time.Minute, Max: 5, Clock: clk})
	_, _ = l.Allow(ctx, "old")
	clk.Advance(30 * time.Second)
	_, _ = l.Allow(ctx, "new")
	clk.Advance(31 * time.Second)

	// Act
	removed, err := l.Sweep(ctx)

	// Assert
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("Sweep() = %d, want 1", removed)
	}
	if _, ok := l.windows["new"]; !ok {
		t.Fatal("live window removed by Sweep()")
	}
}

func TestRedis(t *testing.T) {
	runLimiterBehaviour(t, func(t *testing.T) (allower, func(time.Duration)) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedis(client, "test:rl", Options{Window: time.Minute, Max: 5}, nil), mr.FastForward
	})
}

func TestRedis_Unavailable(t *testing.T) {
	// Arrange
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedis(client, "test:rl", Options{}, nil)
	mr.Close()

	// Act
	ok, err := l.Allow(context.Background(), "k")

	// Assert
	if err == nil {
		t.Fatal("Allow() error = nil, want connection error")
	}
	if ok {
		t.Fatal("Allow() = true on error, want false")
	}
}
