package mail

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"net/textproto"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

func TestSMTP_Send(t *testing.T) {
	// Arrange
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@example.com"})
	if err != nil {
		t.Fatalf("NewSMTP() error = %v", err)
	}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotRaw []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotRaw = addr, from, to, msg
		return nil
	}

	// Act
	err = s.Send(context.Background(), Message{
		To:       []string{"user@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "Your verification code",
		TextBody: "Your code is 123456",
		HTMLBody: "<p>Your code is <b>123456</b></p>",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAddr != "localhost:1025" || gotFrom != "noreply@example.com" {
		t.Fatalf("addr/from = %q/%q", gotAddr, gotFrom)
	}
	if len(gotTo) != 2 {
		t.Fatalf("recipients = %v, want to+bcc", gotTo)
	}
	raw := string(gotRaw)
	if strings.Contains(raw, "audit@example.com") {
		t.Fatal("bcc recipient leaked into headers")
	}
	if !strings.Contains(raw, "multipart/alternative") || !strings.Contains(raw, "Your code is 123456") {
		t.Fatalf("unexpected body:\n%s", raw)
	}
}

func TestSMTP_SendErrors(t *testing.T) {
	tests := []struct {
		name          string
		msg           Message
		sendErr       error
		wantErr       error
		wantTemporary bool
	}{
		{name: "no recipients", msg: Message{}, wantErr: ErrNoRecipients},
		{
			name:          "4xx is temporary",
			msg:           Message{To: []string{"a@b.co"}},
			sendErr:       &textproto.Error{Code: 421, Msg: "try later"},
			wantTemporary: true,
		},
		{
			name:    "5xx is permanent",
			msg:     Message{To: []string{"a@b.co"}},
			sendErr: &textproto.Error{Code: 550, Msg: "no such user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"})
			s.send = func(string, smtp.Auth, string, []string, []byte) error { return tt.sendErr }

			// Act
			err := s.Send(context.Background(), tt.msg)

			// Assert
			if err == nil {
				t.Fatal("Send() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Send() error = %v, want %v", err, tt.wantErr)
			}
			if IsTemporary(err) != tt.wantTemporary {
				t.Fatalf("IsTemporary() = %v, want %v", IsTemporary(err), tt.wantTemporary)
			}
		})
	}
}

type fakeGomailSender struct {
	msgs []*gomail.Message
	err  error
}

func (f *fakeGomailSender) DialAndSend(m ...*gomail.Message) error {
	f.msgs = append(f.msgs, m...)
	return f.err
}

func TestGomail_Send(t *testing.T) {
	// Arrange
	g, err := NewGomail(GomailConfig{Host: "smtp.gmail.com", Username: "sender@gmail.com", Password: "app-pass"})
	if err != nil {
		t.Fatalf("NewGomail() error = %v", err)
	}
	fake := &fakeGomailSender{}
	g.dialer = fake

	// Act
	err = g.Send(context.Background(), Message{
		To:       []string{"user@example.com"},
		Subject:  "Your verification code",
		TextBody: "Your code is 123456",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(fake.msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.msgs))
	}
	if from := fake.msgs[0].GetHeader("From"); len(from) != 1 || from[0] != "sender@gmail.com" {
		t.Fatalf("From = %v, want sender@gmail.com", from)
	}
	var buf bytes.Buffer
	if _, err := fake.msgs[0].WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Your code is 123456") {
		t.Fatalf("body missing code:\n%s", buf.String())
	}
}

func TestGomail_ConfigDefaults(t *testing.T) {
	g, err := NewGomail(GomailConfig{Host: "smtp.gmail.com", Username: "u@gmail.com"})
	if err != nil {
		t.Fatalf("NewGomail() error = %v", err)
	}

	d, ok := g.dialer.(*gomail.Dialer)
	if !ok {
		t.Fatalf("dialer type = %T", g.dialer)
	}
	if d.Port != 465 || !d.SSL {
		t.Fatalf("port/ssl = %d/%v, want 465/true", d.Port, d.SSL)
	}

	if _, err := NewGomail(GomailConfig{}); !errors.Is(err, ErrGomailHostRequired) {
		t.Fatalf("NewGomail() error = %v, want %v", err, ErrGomailHostRequired)
	}
}

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "log", driver: "LOG", opts: FactoryOptions{From: "x@y.z"}},
		{name: "smtp", driver: DriverSMTP, opts: FactoryOptions{SMTP: SMTPConfig{Host: "h", Port: 25}}},
		{name: "smtp missing host", driver: DriverSMTP, wantErr: ErrSMTPHostPortRequired},
		{name: "unknown", driver: "ses", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			m, err := NewFromDriver(tt.driver, tt.opts)

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFromDriver() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && m == nil {
				t.Fatal("NewFromDriver() = nil, want driver")
			}
		})
	}
}

func TestLog_Send(t *testing.T) {
	l := NewLog("noreply@example.com")

	if err := l.Send(context.Background(), Message{To: []string{"a@b.co"}, TextBody: "hi"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := l.Send(context.Background(), Message{}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("Send() error = %v, want %v", err, ErrNoRecipients)
	}
}
