package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/config"
	"github.com/shandysiswandi/mailotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyNotifierTimeout = "modules.emailverify.notifier.timeout_seconds"

	defaultNotifierTimeout = 10 * time.Second
)

// Store holds at most one pending challenge per identity.
type Store interface {
	Issue(ctx context.Context, identity string) (code string, expiresAt time.Time, err error)
	Verify(ctx context.Context, identity, code string) error
	Sweep(ctx context.Context) (int, error)
}

// Limiter caps code requests per network origin.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Sweep(ctx context.Context) (int, error)
}

// Notifier delivers a code to its owner.
type Notifier interface {
	Deliver(ctx context.Context, identity, code string, ttl time.Duration) error
}

type repoDB interface {
	RecordVerified(ctx context.Context, v entity.VerifiedEmail) error
}

type Usecase struct {
	store     Store
	limiter   Limiter
	notifier  Notifier
	mailer    Notifier
	repoDB    repoDB
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	uid       uid.NumberID
	ins       instrument.Instrumentation
	ttl       time.Duration

	requested metric.Int64Counter
	submitted metric.Int64Counter
	swept     metric.Int64Counter
}

type Dependency struct {
	Store    Store
	Limiter  Limiter
	Notifier Notifier
	// Mailer sends codes consumed from the broker. Optional.
	Mailer Notifier
	// RepoDB records verified emails. Optional.
	RepoDB repoDB
	// Idempotency deduplicates redelivered broker events. Optional.
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	Clock       clock.Clocker
	UID         uid.NumberID
	Instrument  instrument.Instrumentation
	// TTL is the lifetime the store gives each code, quoted in the email.
	TTL time.Duration
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	s := &Usecase{
		store:     dep.Store,
		limiter:   dep.Limiter,
		notifier:  dep.Notifier,
		mailer:    dep.Mailer,
		repoDB:    dep.RepoDB,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		uid:       dep.UID,
		ins:       ins,
		ttl:       dep.TTL,
	}

	meter := ins.Meter("emailverify.usecase")

	var err error
	if s.requested, err = meter.Int64Counter("emailverify.code.requested",
		metric.WithDescription("Code requests by result")); err != nil {
		slog.Error("failed to create code requested counter", "error", err)
	}
	if s.submitted, err = meter.Int64Counter("emailverify.code.submitted",
		metric.WithDescription("Code submissions by result")); err != nil {
		slog.Error("failed to create code submitted counter", "error", err)
	}
	if s.swept, err = meter.Int64Counter("emailverify.sweep.removed",
		metric.WithDescription("Expired challenges and windows removed by the sweeper")); err != nil {
		slog.Error("failed to create sweep counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("emailverify.usecase").Start(ctx, name)
}

func count(ctx context.Context, c metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if c == nil || n == 0 {
		return
	}
	c.Add(ctx, n, metric.WithAttributes(attrs...))
}

func (s *Usecase) notifierTimeout() time.Duration {
	if s.cfg == nil {
		return defaultNotifierTimeout
	}
	if d := s.cfg.GetSecond(keyNotifierTimeout); d > 0 {
		return d
	}
	return defaultNotifierTimeout
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
