package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/mailotp/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// responder guards a message so that it is acked or nacked at most once.
type responder struct {
	done atomic.Bool
}

func (r *responder) claim() bool {
	return !r.done.Swap(true)
}

func (r *responder) responded() bool {
	return r.done.Load()
}

type respondable interface {
	Message
	responded() bool
}

// dispatch runs handler with panic recovery, then acks on success and nacks
// on failure unless the handler already responded.
func dispatch(ctx context.Context, kind string, msg respondable, handler Handler) error {
	herr := callHandlerWithRecover(ctx, kind, func() error {
		return handler(ctx, msg)
	})

	if msg.responded() {
		return herr
	}

	if herr != nil {
		if err := msg.Nack(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to nack message", "kind", kind, "id", msg.ID(), "error", err)
		}
		return herr
	}

	return msg.Ack(ctx)
}

func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
		}
	}()

	return fn()
}
