package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
)

// Memory is an in-process store. A single mutex covers every read-modify-write
// so Issue, Verify and Sweep on one identity never interleave.
type Memory struct {
	opts Options

	mu      sync.Mutex
	entries map[string]entity.Challenge
}

func NewMemory(opts Options) *Memory {
	return &Memory{
		opts:    opts.withDefaults(),
		entries: make(map[string]entity.Challenge),
	}
}

// Issue replaces any pending challenge for identity with a fresh code.
func (m *Memory) Issue(_ context.Context, identity string) (string, time.Time, error) {
	code, ch, err := newChallenge(m.opts, identity)
	if err != nil {
		return "", time.Time{}, err
	}

	m.mu.Lock()
	m.entries[identity] = ch
	m.mu.Unlock()

	return code, ch.ExpiresAt, nil
}

// Verify checks code against the pending challenge for identity and consumes
// it on success.
func (m *Memory) Verify(_ context.Context, identity, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.entries[identity]
	if !ok {
		return entity.ErrNotFound
	}

	if ch.Expired(m.opts.Clock.Now()) {
		delete(m.entries, identity)
		return entity.ErrExpired
	}

	if !m.opts.Hash.Verify(ch.CodeDigest, code) {
		ch.Attempts++
		if m.opts.attemptsExhausted(ch.Attempts) {
			delete(m.entries, identity)
			return entity.ErrTooManyAttempts
		}
		m.entries[identity] = ch
		return entity.ErrMismatch
	}

	delete(m.entries, identity)
	return nil
}

// Sweep deletes every expired challenge and returns how many were removed.
func (m *Memory) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Clock.Now()
	removed := 0
	for identity, ch := range m.entries {
		if ch.Expired(now) {
			delete(m.entries, identity)
			removed++
		}
	}

	return removed, nil
}
