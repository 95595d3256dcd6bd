package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"github.com/shandysiswandi/mailotp/internal/pkg/idempotency"
)

type DeliverIssuedCodeInput struct {
	EventID    string `validate:"required"`
	Email      string `validate:"required,email"`
	Code       string `validate:"required,otpcode"`
	TTLSeconds int64  `validate:"gt=0"`
}

// DeliverIssuedCode mails a code published by the broker notifier. With
// idempotency configured a redelivered event is sent at most once; a failed
// send releases the key so the redelivery can try again.
func (s *Usecase) DeliverIssuedCode(ctx context.Context, in DeliverIssuedCodeInput) error {
	ctx, span := s.startSpan(ctx, "DeliverIssuedCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "event_id", in.EventID, "error", err)
		return nil
	}

	if s.mailer == nil {
		slog.ErrorContext(ctx, "no mailer configured for issued codes", "event_id", in.EventID)
		return goerror.NewServer(errors.New("mailer not configured"))
	}

	ttl := time.Duration(in.TTLSeconds) * time.Second
	send := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.notifierTimeout())
		defer cancel()
		return s.mailer.Deliver(ctx, in.Email, in.Code, ttl)
	}

	if s.idemp == nil {
		if err := send(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to deliver issued code", "event_id", in.EventID, "email", in.Email, "error", err)
			return err
		}
		return nil
	}

	err := s.idemp.Exec(ctx, "emailverify:deliver:"+in.EventID, send, idempotency.WithReleaseOnFailure())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.InfoContext(ctx, "issued code already delivered", "event_id", in.EventID)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "issued code delivery in progress elsewhere", "event_id", in.EventID)
		return err
	default:
		slog.ErrorContext(ctx, "failed to deliver issued code", "event_id", in.EventID, "email", in.Email, "error", err)
		return err
	}
}
