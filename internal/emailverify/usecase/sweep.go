package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultSweepInterval = 60 * time.Second

type SweepOutput struct {
	Challenges int
	Windows    int
}

// Sweep removes expired challenges and elapsed rate windows. Both backends
// are swept even when one fails; the counts removed so far are returned with
// the joined error.
func (s *Usecase) Sweep(ctx context.Context) (*SweepOutput, error) {
	ctx, span := s.startSpan(ctx, "Sweep")
	defer span.End()

	challenges, errStore := s.store.Sweep(ctx)
	if errStore != nil {
		slog.ErrorContext(ctx, "failed to sweep challenges", "error", errStore)
	}

	windows, errLimiter := s.limiter.Sweep(ctx)
	if errLimiter != nil {
		slog.ErrorContext(ctx, "failed to sweep rate windows", "error", errLimiter)
	}

	count(ctx, s.swept, int64(challenges), attribute.String("kind", "challenge"))
	count(ctx, s.swept, int64(windows), attribute.String("kind", "window"))
	if challenges > 0 || windows > 0 {
		slog.DebugContext(ctx, "sweep finished", "challenges", challenges, "windows", windows)
	}

	return &SweepOutput{Challenges: challenges, Windows: windows}, errors.Join(errStore, errLimiter)
}

// RunSweeper calls Sweep every interval until ctx is done. A failed sweep is
// logged and retried on the next tick.
func (s *Usecase) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "sweeper started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "sweeper stopped")
			return nil
		case <-ticker.C:
			//nolint:errcheck // logged inside Sweep
			_, _ = s.Sweep(ctx)
		}
	}
}
