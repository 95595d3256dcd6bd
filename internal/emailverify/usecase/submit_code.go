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
	SubmitCodeInput struct {
		Email  string `validate:"required,email"`
		Code   string `validate:"required,max=16"`
		Origin string
	}

	SubmitCodeOutput struct {
		Email      string
		VerifiedAt time.Time
	}
)

func (s *Usecase) SubmitCode(ctx context.Context, in SubmitCodeInput) (*SubmitCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "SubmitCode")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		count(ctx, s.submitted, 1, attribute.String("result", "invalid"))
		return nil, goerror.NewInvalidInput(nil, "email and code required")
	}

	err := s.store.Verify(ctx, in.Email, in.Code)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrNotFound):
		count(ctx, s.submitted, 1, attribute.String("result", "not_found"))
		return nil, goerror.NewBusinessWrap(err, "no code requested for this email", goerror.CodeBadRequest)
	case errors.Is(err, entity.ErrExpired):
		count(ctx, s.submitted, 1, attribute.String("result", "expired"))
		return nil, goerror.NewBusinessWrap(err, "code expired", goerror.CodeBadRequest)
	case errors.Is(err, entity.ErrMismatch):
		slog.WarnContext(ctx, "incorrect code submitted", "email", in.Email, "origin", in.Origin)
		count(ctx, s.submitted, 1, attribute.String("result", "mismatch"))
		return nil, goerror.NewBusinessWrap(err, "incorrect code", goerror.CodeBadRequest)
	case errors.Is(err, entity.ErrTooManyAttempts):
		slog.WarnContext(ctx, "challenge discarded after too many attempts", "email", in.Email, "origin", in.Origin)
		count(ctx, s.submitted, 1, attribute.String("result", "too_many_attempts"))
		return nil, goerror.NewBusinessWrap(err, "too many incorrect attempts, request a new code", goerror.CodeTooManyRequest)
	default:
		slog.ErrorContext(ctx, "failed to verify code", "email", in.Email, "error", err)
		count(ctx, s.submitted, 1, attribute.String("result", "error"))
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	s.recordVerified(ctx, entity.VerifiedEmail{Email: in.Email, Origin: in.Origin, VerifiedAt: now})

	slog.InfoContext(ctx, "email verified", "email", in.Email)
	count(ctx, s.submitted, 1, attribute.String("result", "verified"))

	return &SubmitCodeOutput{Email: in.Email, VerifiedAt: now}, nil
}

// recordVerified is best effort; the code is already consumed.
func (s *Usecase) recordVerified(ctx context.Context, v entity.VerifiedEmail) {
	if s.repoDB == nil {
		return
	}

	v.ID = s.uid.Generate()
	if err := s.repoDB.RecordVerified(ctx, v); err != nil {
		slog.ErrorContext(ctx, "failed to repo record verified email", "email", v.Email, "error", err)
	}
}
