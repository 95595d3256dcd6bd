package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
)

type execCall struct {
	sql  string
	args []any
}

type fakeConn struct {
	calls []execCall
	err   error
}

func (f *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestDB_Migrate(t *testing.T) {
	// Arrange
	conn := &fakeConn{}
	db := NewDB(conn, nil)

	// Act
	err := db.Migrate(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if len(conn.calls) != 1 || !strings.Contains(conn.calls[0].sql, "CREATE TABLE IF NOT EXISTS emailverify_verified_emails") {
		t.Fatalf("Exec() calls = %+v", conn.calls)
	}
}

func TestDB_RecordVerified(t *testing.T) {
	// Arrange
	conn := &fakeConn{}
	db := NewDB(conn, nil)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Act
	err := db.RecordVerified(context.Background(), entity.VerifiedEmail{
		ID: 42, Email: "a@x.com", Origin: "203.0.113.7", VerifiedAt: at,
	})

	// Assert
	if err != nil {
		t.Fatalf("RecordVerified() error = %v", err)
	}
	call := conn.calls[0]
	if !strings.Contains(call.sql, "ON CONFLICT (email) DO UPDATE") {
		t.Fatalf("sql is not an upsert: %s", call.sql)
	}
	want := []any{int64(42), "a@x.com", "203.0.113.7", at}
	for i := range want {
		if call.args[i] != want[i] {
			t.Fatalf("arg %d = %v, want %v", i, call.args[i], want[i])
		}
	}
}

func TestDB_MapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, unavailable: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, unavailable: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "42P01"}},
		{name: "plain error", err: errors.New("conn reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDB(&fakeConn{err: tt.err}, nil)

			err := db.RecordVerified(context.Background(), entity.VerifiedEmail{ID: 1, Email: "a@x.com"})

			var gerr *goerror.Error
			isUnavailable := errors.As(err, &gerr) && gerr.Code() == goerror.CodeUnavailable
			if isUnavailable != tt.unavailable {
				t.Fatalf("RecordVerified() error = %v, unavailable %v want %v", err, isUnavailable, tt.unavailable)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("RecordVerified() error = %v, want wrapping %v", err, tt.err)
			}
		})
	}
}
