package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const createTable = `
CREATE TABLE IF NOT EXISTS emailverify_verified_emails (
	id          BIGINT PRIMARY KEY,
	email       TEXT NOT NULL UNIQUE,
	origin      TEXT NOT NULL DEFAULT '',
	verified_at TIMESTAMPTZ NOT NULL
)`

const upsertVerified = `
INSERT INTO emailverify_verified_emails (id, email, origin, verified_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE
SET origin = EXCLUDED.origin, verified_at = EXCLUDED.verified_at`

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type DB struct {
	conn DBTX
	ins  instrument.Instrumentation
}

func NewDB(conn DBTX, ins instrument.Instrumentation) *DB {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &DB{conn: conn, ins: ins}
}

// - 23505 unique violation cannot happen on email (upsert), only on id
// - 40001 serialization_failure and 40P01 deadlock_detected are retryable
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return goerror.NewUnavailable(err, "registry busy")
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("emailverify.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Migrate creates the registry table when it is missing.
func (s *DB) Migrate(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createTable)
	return s.mapError(err)
}

// RecordVerified stores v, replacing the origin and time of an earlier
// verification of the same email.
func (s *DB) RecordVerified(ctx context.Context, v entity.VerifiedEmail) (err error) {
	ctx, span := s.startSpan(ctx, "RecordVerified")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, upsertVerified, v.ID, v.Email, v.Origin, v.VerifiedAt)
	return s.mapError(err)
}
