// Package store keeps one pending challenge per email address.
//
// Memory is the default backend and holds challenges in process. Redis shares
// them across replicas. Both apply the same verification order: missing,
// expired, mismatch (with an optional attempt cap), then success.
package store

import (
	"strings"
	"time"

	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/hash"
	"github.com/shandysiswandi/mailotp/internal/pkg/otp"
)

const DefaultTTL = 300 * time.Second

// Options configures a store backend.
type Options struct {
	// TTL is how long an issued code stays valid.
	TTL time.Duration
	// MaxAttempts deletes a challenge after this many wrong codes. Zero disables the cap.
	MaxAttempts int
	Generator   otp.Generator
	Hash        hash.Hash
	Clock       clock.Clocker
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.MaxAttempts < 0 {
		o.MaxAttempts = 0
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}

func validIdentity(identity string) bool {
	return identity != "" && strings.Contains(identity, "@")
}

// newChallenge generates a code for identity and returns it with its challenge.
func newChallenge(o Options, identity string) (string, entity.Challenge, error) {
	if !validIdentity(identity) {
		return "", entity.Challenge{}, entity.ErrInvalidIdentity
	}

	code, err := o.Generator.Generate()
	if err != nil {
		return "", entity.Challenge{}, err
	}

	digest, err := o.Hash.Hash(code)
	if err != nil {
		return "", entity.Challenge{}, err
	}

	return code, entity.Challenge{
		Identity:   identity,
		CodeDigest: string(digest),
		ExpiresAt:  o.Clock.Now().Add(o.TTL),
	}, nil
}

func (o Options) attemptsExhausted(attempts int) bool {
	return o.MaxAttempts > 0 && attempts >= o.MaxAttempts
}
