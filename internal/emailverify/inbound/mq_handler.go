package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/mailotp/internal/emailverify/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, fromBody string, headers []messaging.Header) context.Context {
	if cID := messaging.HeaderValue(headers, keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	if fromBody != "" {
		return instrument.SetCorrelationID(ctx, fromBody)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// VerificationCodeIssued mails a code published by the broker notifier.
// Malformed bodies are logged and acked; send failures are nacked for redelivery.
func (h *MQHandler) VerificationCodeIssued(ctx context.Context, msg messaging.Message) error {
	body := msg.Body()

	var payload event.VerificationCodeIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		ctx = h.ensureCorrelationID(ctx, "", msg.Headers())
		slog.ErrorContext(ctx, "failed to parse message body of verification code issued", "msg_id", msg.ID(), "error", err)
		return nil
	}

	ctx = h.ensureCorrelationID(ctx, payload.CorrelationID, msg.Headers())

	ctx, span := h.ins.Tracer("emailverify.inbound.mq").Start(ctx, "VerificationCodeIssued")
	defer span.End()

	slog.InfoContext(ctx, "consume: verification code issued", "event_id", payload.EventID, "email", payload.Email)

	eventID := payload.EventID
	if eventID == "" {
		eventID = msg.ID()
	}

	if err := h.uc.DeliverIssuedCode(ctx, usecase.DeliverIssuedCodeInput{
		EventID:    eventID,
		Email:      payload.Email,
		Code:       payload.Code,
		TTLSeconds: payload.TTLSeconds,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver issued code", "event_id", eventID, "error", err)
		return err
	}

	return nil
}
