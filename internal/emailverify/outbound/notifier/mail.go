// Package notifier delivers issued codes to their owner.
//
// Mail sends the message directly through a mail transport. Broker publishes
// an event so a consumer can send it off the request path.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

type MailOptions struct {
	// Brand is shown in the subject and heading.
	Brand string
	// Timeout bounds one Deliver call including throttling and retries.
	Timeout time.Duration
	// MaxPerSecond caps sends across the process. Zero or less disables the cap.
	MaxPerSecond float64
	Burst        int
	// RetryMax is how many times a temporary send failure is retried.
	RetryMax     uint64
	RetryBackoff time.Duration
}

// Mail renders the code email and sends it through a mail transport.
type Mail struct {
	client  mail.Mail
	opts    MailOptions
	limiter *rate.Limiter
	tmpl    *templates
	ins     instrument.Instrumentation
}

func NewMail(client mail.Mail, opts MailOptions, ins instrument.Instrumentation) (*Mail, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("notifier: parse templates: %w", err)
	}

	if opts.Brand == "" {
		opts.Brand = "mailotp"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 200 * time.Millisecond
	}

	limit := rate.Inf
	if opts.MaxPerSecond > 0 && !math.IsInf(opts.MaxPerSecond, 1) {
		limit = rate.Limit(opts.MaxPerSecond)
	}

	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Mail{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.Burst),
		tmpl:    tmpl,
		ins:     ins,
	}, nil
}

// Deliver emails code to identity. Temporary transport failures are retried
// with exponential backoff until the timeout.
func (m *Mail) Deliver(ctx context.Context, identity, code string, ttl time.Duration) (err error) {
	ctx, span := m.ins.Tracer("emailverify.outbound.notifier").Start(ctx, "Mail.Deliver")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	subject, text, html, err := m.tmpl.render(templateData{
		Brand:      m.opts.Brand,
		Code:       code,
		TTLSeconds: int64(ttl / time.Second),
	})
	if err != nil {
		return fmt.Errorf("notifier: render message: %w", err)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notifier: throttled: %w", err)
	}

	msg := mail.Message{
		To:       []string{identity},
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}

	backoff := retry.WithMaxRetries(m.opts.RetryMax, retry.NewExponential(m.opts.RetryBackoff))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := m.client.Send(ctx, msg)
		if err == nil {
			return nil
		}
		if mail.IsTemporary(err) {
			slog.WarnContext(ctx, "temporary mail failure, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
