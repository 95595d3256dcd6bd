package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/textproto"

	"gopkg.in/gomail.v2"
)

// ErrGomailHostRequired is returned when the gomail host is missing.
var ErrGomailHostRequired = errors.New("mail: gomail host is required")

// GomailConfig configures the gomail implementation.
type GomailConfig struct {
	// Host is the SMTP server hostname, e.g. smtp.gmail.com.
	Host string
	// Port is the SMTP server port; 465 switches to implicit TLS.
	Port int
	// Username is the SMTP authentication username.
	Username string
	// Password is the SMTP authentication password (an app password for Gmail).
	Password string
	// From is the default sender; Username is used when both are empty.
	From string
}

type gomailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Gomail is a Mail implementation backed by gopkg.in/gomail.v2. Unlike
// net/smtp it supports implicit TLS, which Gmail requires on port 465.
type Gomail struct {
	dialer      gomailSender
	defaultFrom string
}

// NewGomail constructs a gomail sender.
func NewGomail(cfg GomailConfig) (*Gomail, error) {
	if cfg.Host == "" {
		return nil, ErrGomailHostRequired
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &Gomail{dialer: d, defaultFrom: from}, nil
}

// Send delivers a message. The connection is opened per message.
func (g *Gomail) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := g.compose(msg)
	if err != nil {
		return err
	}

	return classifyGomailError(g.dialer.DialAndSend(m))
}

func (g *Gomail) compose(msg Message) (*gomail.Message, error) {
	from, _, err := envelope(msg, g.defaultFrom)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return m, nil
}

// Close implements io.Closer for interface compatibility.
func (g *Gomail) Close() error {
	return nil
}

func classifyGomailError(err error) error {
	if err == nil {
		return nil
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && tpErr.Code >= 500 {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.As(err, &tpErr) {
		return &TemporaryError{Err: err}
	}

	return err
}
