package entity

import (
	"errors"
	"time"
)

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrNotFound covers both never issued and already consumed codes.
	ErrNotFound        = errors.New("no code requested")
	ErrExpired         = errors.New("code expired")
	ErrMismatch        = errors.New("code mismatch")
	ErrTooManyAttempts = errors.New("too many attempts")
)

// Challenge is the pending verification for one email address.
type Challenge struct {
	Identity   string
	CodeDigest string // hex HMAC-SHA256 of the code
	ExpiresAt  time.Time
	Attempts   int
}

// Expired reports whether the challenge is past its expiry at now.
// A challenge is still valid at exactly ExpiresAt.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type RateWindow struct {
	Count       int
	WindowStart time.Time
}

// Elapsed reports whether a window of length size started at WindowStart is over at now.
func (w RateWindow) Elapsed(now time.Time, size time.Duration) bool {
	return !now.Before(w.WindowStart.Add(size))
}

type VerifiedEmail struct {
	ID         int64
	Email      string
	Origin     string
	VerifiedAt time.Time
}
