package mail

import (
	"context"
	"log/slog"
)

// Log is a Mail implementation that writes messages to the application log
// instead of sending them. It is meant for local development.
type Log struct {
	defaultFrom string
}

// NewLog constructs a log mail driver.
func NewLog(from string) *Log {
	return &Log{defaultFrom: from}
}

// Send logs the message envelope and text body.
func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, recipients, err := envelope(msg, l.defaultFrom)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mail not sent, log driver active",
		"from", from,
		"to", recipients,
		"subject", msg.Subject,
		"text", msg.TextBody,
	)
	return nil
}

// Close implements io.Closer for interface compatibility.
func (l *Log) Close() error {
	return nil
}
