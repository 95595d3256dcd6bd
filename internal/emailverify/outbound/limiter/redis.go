package limiter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

// KEYS[1] window counter, ARGV[1] window in ms
var allowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Redis shares windows across replicas. The window starts at the first hit
// and the counter key expires with it.
type Redis struct {
	client redis.UniversalClient
	prefix string
	opts   Options
	ins    instrument.Instrumentation
}

func NewRedis(client redis.UniversalClient, prefix string, opts Options, ins instrument.Instrumentation) *Redis {
	if prefix == "" {
		prefix = "emailverify:rl"
	}
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &Redis{client: client, prefix: prefix, opts: opts.withDefaults(), ins: ins}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	ctx, span := r.ins.Tracer("emailverify.outbound.limiter").Start(ctx, "Allow")
	defer span.End()

	n, err := allowScript.Run(ctx, r.client,
		[]string{r.prefix + ":" + key},
		r.opts.Window.Milliseconds(),
	).Int64()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("limiter: count request: %w", err)
	}

	return n <= int64(r.opts.Max), nil
}

// Sweep is a no-op; counters expire with their window.
func (r *Redis) Sweep(context.Context) (int, error) {
	return 0, nil
}
