package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
)

type (
	RequestCodeInput struct {
		Email  string `validate:"required,email,max=254"`
		Origin string
	}

	RequestCodeOutput struct {
		ExpiresAt  time.Time
		TTLSeconds int64
	}
)

// RequestCode issues a code for in.Email and delivers it.
//
// The origin limit is checked first, so a rejected request neither writes a
// challenge nor sends mail. When delivery fails the challenge stays issued and
// a later request replaces it.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	allowed, err := s.limiter.Allow(ctx, in.Origin)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check issuance limit", "origin", in.Origin, "error", err)
		count(ctx, s.requested, 1, attribute.String("result", "error"))
		return nil, goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "code request rate limited", "origin", in.Origin)
		count(ctx, s.requested, 1, attribute.String("result", "rate_limited"))
		return nil, goerror.NewBusiness("too many requests, try again later", goerror.CodeTooManyRequest)
	}

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		count(ctx, s.requested, 1, attribute.String("result", "invalid"))
		return nil, goerror.NewInvalidInput(nil, "invalid email")
	}

	code, expiresAt, err := s.store.Issue(ctx, in.Email)
	if errors.Is(err, entity.ErrInvalidIdentity) {
		count(ctx, s.requested, 1, attribute.String("result", "invalid"))
		return nil, goerror.NewInvalidInput(nil, "invalid email")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue code", "email", in.Email, "error", err)
		count(ctx, s.requested, 1, attribute.String("result", "error"))
		return nil, goerror.NewServer(err)
	}

	deliverCtx, cancel := context.WithTimeout(ctx, s.notifierTimeout())
	defer cancel()

	if err := s.notifier.Deliver(deliverCtx, in.Email, code, s.ttl); err != nil {
		slog.ErrorContext(ctx, "failed to deliver code", "email", in.Email, "error", err)
		count(ctx, s.requested, 1, attribute.String("result", "delivery_failed"))
		return nil, goerror.NewUnavailable(err, "failed to send code")
	}

	slog.InfoContext(ctx, "code sent", "email", in.Email, "expires_at", expiresAt)
	count(ctx, s.requested, 1, attribute.String("result", "sent"))

	return &RequestCodeOutput{
		ExpiresAt:  expiresAt,
		TTLSeconds: int64(s.ttl / time.Second),
	}, nil
}
