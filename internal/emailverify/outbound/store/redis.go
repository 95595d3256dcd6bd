package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// expiredGrace keeps a key alive past ExpiresAt so Verify can still report
// ErrExpired instead of ErrNotFound.
const expiredGrace = 5 * time.Minute

const (
	verifyOK = iota
	verifyNotFound
	verifyExpired
	verifyMismatch
	verifyTooManyAttempts
)

// KEYS[1] challenge hash
// ARGV[1] code digest, ARGV[2] now in ms, ARGV[3] max attempts (0 = unlimited)
var verifyScript = redis.NewScript(`
local v = redis.call('HMGET', KEYS[1], 'digest', 'expires_at_ms', 'attempts')
if not v[1] then
  return 1
end
if tonumber(ARGV[2]) > tonumber(v[2]) then
  redis.call('DEL', KEYS[1])
  return 2
end
if v[1] ~= ARGV[1] then
  local n = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
  local max = tonumber(ARGV[3])
  if max > 0 and n >= max then
    redis.call('DEL', KEYS[1])
    return 4
  end
  return 3
end
redis.call('DEL', KEYS[1])
return 0
`)

// Redis stores each challenge as a hash under <prefix>:<identity>.
type Redis struct {
	client redis.UniversalClient
	prefix string
	opts   Options
	ins    instrument.Instrumentation
}

func NewRedis(client redis.UniversalClient, prefix string, opts Options, ins instrument.Instrumentation) *Redis {
	if prefix == "" {
		prefix = "emailverify:challenge"
	}
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &Redis{client: client, prefix: prefix, opts: opts.withDefaults(), ins: ins}
}

func (r *Redis) key(identity string) string {
	return r.prefix + ":" + identity
}

func (r *Redis) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return r.ins.Tracer("emailverify.outbound.store").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !isVerifyFailure(err) && !errors.Is(err, entity.ErrInvalidIdentity) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isVerifyFailure(err error) bool {
	return errors.Is(err, entity.ErrNotFound) ||
		errors.Is(err, entity.ErrExpired) ||
		errors.Is(err, entity.ErrMismatch) ||
		errors.Is(err, entity.ErrTooManyAttempts)
}

func (r *Redis) Issue(ctx context.Context, identity string) (code string, expiresAt time.Time, err error) {
	ctx, span := r.startSpan(ctx, "Issue")
	defer func() { endSpan(span, err) }()

	code, ch, err := newChallenge(r.opts, identity)
	if err != nil {
		return "", time.Time{}, err
	}

	key := r.key(identity)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"digest", ch.CodeDigest,
			"expires_at_ms", ch.ExpiresAt.UnixMilli(),
			"attempts", 0,
		)
		pipe.PExpireAt(ctx, key, ch.ExpiresAt.Add(expiredGrace))
		return nil
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("store: write challenge: %w", err)
	}

	return code, ch.ExpiresAt, nil
}

func (r *Redis) Verify(ctx context.Context, identity, code string) (err error) {
	ctx, span := r.startSpan(ctx, "Verify")
	defer func() { endSpan(span, err) }()

	digest, err := r.opts.Hash.Hash(code)
	if err != nil {
		return err
	}

	res, err := verifyScript.Run(ctx, r.client,
		[]string{r.key(identity)},
		string(digest), r.opts.Clock.Now().UnixMilli(), r.opts.MaxAttempts,
	).Int()
	if err != nil {
		return fmt.Errorf("store: verify challenge: %w", err)
	}

	switch res {
	case verifyOK:
		return nil
	case verifyNotFound:
		return entity.ErrNotFound
	case verifyExpired:
		return entity.ErrExpired
	case verifyMismatch:
		return entity.ErrMismatch
	case verifyTooManyAttempts:
		return entity.ErrTooManyAttempts
	default:
		return fmt.Errorf("store: unexpected verify result %d", res)
	}
}

// Sweep is a no-op; redis key expiry bounds memory.
func (r *Redis) Sweep(context.Context) (int, error) {
	return 0, nil
}
