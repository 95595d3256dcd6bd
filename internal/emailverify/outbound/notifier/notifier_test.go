package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/shared/event"
)

type fakeMail struct {
	mu    sync.Mutex
	sent  []mail.Message
	errs  []error
	block bool
}

func (f *fakeMail) Send(ctx context.Context, msg mail.Message) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, msg)
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeMail) Close() error { return nil }

func (f *fakeMail) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestMail(t *testing.T, client mail.Mail, opts MailOptions) *Mail {
	t.Helper()

	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Millisecond
	}
	m, err := NewMail(client, opts, instrument.NewNoop())
	if err != nil {
		t.Fatalf("NewMail() error = %v", err)
	}
	return m
}

func TestMail_Deliver(t *testing.T) {
	// Arrange
	client := &fakeMail{}
	m := newTestMail(t, client, MailOptions{Brand: "Acme"})

	// Act
	err := m.Deliver(context.Background(), "a@x.com", "042731", 300*time.Second)

	// Assert
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if client.calls() != 1 {
		t.Fatalf("Send() calls = %d, want 1", client.calls())
	}
	msg := client.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "a@x.com" {
		t.Fatalf("To = %v, want [a@x.com]", msg.To)
	}
	if msg.Subject != "Your Acme verification code" {
		t.Fatalf("Subject = %q", msg.Subject)
	}
	for name, body := range map[string]string{"text": msg.TextBody, "html": msg.HTMLBody} {
		if !strings.Contains(body, "042731") {
			t.Fatalf("%s body does not contain the code", name)
		}
		if !strings.Contains(body, "300 seconds") {
			t.Fatalf("%s body does not contain the ttl", name)
		}
	}
}

func TestMail_DeliverRetry(t *testing.T) {
	temporary := &mail.TemporaryError{Err: errors.New("421 try again later")}

	tests := []struct {
		name      string
		errs      []error
		retryMax  uint64
		wantErr   bool
		wantCalls int
	}{
		{name: "recovers after temporary failures", errs: []error{temporary, temporary}, retryMax: 2, wantCalls: 3},
		{name: "gives up after retry budget", errs: []error{temporary, temporary, temporary}, retryMax: 2, wantErr: true, wantCalls: 3},
		{name: "permanent failure is not retried", errs: []error{errors.New("550 mailbox unavailable")}, retryMax: 2, wantErr: true, wantCalls: 1},
		{name: "no retries configured", errs: []error{temporary}, retryMax: 0, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			client := &fakeMail{errs: tt.errs}
			m := newTestMail(t, client, MailOptions{RetryMax: tt.retryMax})

			// Act
			err := m.Deliver(context.Background(), "a@x.com", "123456", time.Minute)

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("Deliver() error = %v, wantErr %v", err, tt.wantErr)
			}
			if client.calls() != tt.wantCalls {
				t.Fatalf("Send() calls = %d, want %d", client.calls(), tt.wantCalls)
			}
		})
	}
}

func TestMail_DeliverTimeout(t *testing.T) {
	// Arrange
	m := newTestMail(t, &fakeMail{block: true}, MailOptions{Timeout: 50 * time.Millisecond})
	start := time.Now()

	// Act
	err := m.Deliver(context.Background(), "a@x.com", "123456", time.Minute)

	// Assert
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Deliver() error = %v, want %v", err, context.DeadlineExceeded)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Deliver() took %v, want bounded by timeout", elapsed)
	}
}

func TestMail_DeliverThrottled(t *testing.T) {
	// Arrange
	client := &fakeMail{}
	m := newTestMail(t, client, MailOptions{MaxPerSecond: 0.001, Burst: 1, Timeout: 50 * time.Millisecond})
	if err := m.Deliver(context.Background(), "a@x.com", "123456", time.Minute); err != nil {
		t.Fatalf("first Deliver() error = %v", err)
	}

	// Act
	err := m.Deliver(context.Background(), "b@x.com", "654321", time.Minute)

	// Assert
	if err == nil {
		t.Fatal("second Deliver() error = nil, want throttle error")
	}
	if client.calls() != 1 {
		t.Fatalf("Send() calls = %d, want 1", client.calls())
	}
}

type fakePublisher struct {
	destination string
	msg         messaging.OutgoingMessage
	err         error
}

func (f *fakePublisher) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) error {
	f.destination = destination
	f.msg = msg
	return f.err
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func TestBroker_Deliver(t *testing.T) {
	// Arrange
	pub := &fakePublisher{}
	b := NewBroker(pub, fixedID("evt-1"), nil)
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	// Act
	err := b.Deliver(ctx, "a@x.com", "123456", 300*time.Second)

	// Assert
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if pub.destination != event.VerificationCodeIssuedDestination {
		t.Fatalf("destination = %q", pub.destination)
	}
	var got event.VerificationCodeIssuedMessage
	if err := json.Unmarshal(pub.msg.Body, &got); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	want := event.VerificationCodeIssuedMessage{
		EventID:       "evt-1",
		CorrelationID: "cid-1",
		Email:         "a@x.com",
		Code:          "123456",
		TTLSeconds:    300,
	}
	if got != want {
		t.Fatalf("body = %+v, want %+v", got, want)
	}
	if v := messaging.HeaderValue(pub.msg.Headers, keyOfCorrelationID); v != "cid-1" {
		t.Fatalf("cID header = %q, want cid-1", v)
	}
	if string(pub.msg.Key) != "a@x.com" {
		t.Fatalf("key = %q, want a@x.com", pub.msg.Key)
	}
}

func TestBroker_DeliverPublishFailure(t *testing.T) {
	// Arrange
	pub := &fakePublisher{err: errors.New("broker down")}
	b := NewBroker(pub, fixedID("evt-1"), nil)

	// Act
	err := b.Deliver(context.Background(), "a@x.com", "123456", time.Minute)

	// Assert
	if err == nil {
		t.Fatal("Deliver() error = nil, want publish error")
	}
}
