package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Broker hands the code to a message broker. A publish failure is a delivery
// failure; the actual send happens in the consumer.
type Broker struct {
	client messaging.Publisher
	uuid   uid.StringID
	ins    instrument.Instrumentation
}

func NewBroker(client messaging.Publisher, uuid uid.StringID, ins instrument.Instrumentation) *Broker {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &Broker{client: client, uuid: uuid, ins: ins}
}

func (b *Broker) Deliver(ctx context.Context, identity, code string, ttl time.Duration) error {
	ctx, span := b.ins.Tracer("emailverify.outbound.notifier").Start(ctx, "Broker.Deliver")
	defer span.End()

	cID := instrument.GetCorrelationID(ctx)
	body, err := json.Marshal(event.VerificationCodeIssuedMessage{
		EventID:       b.uuid.Generate(),
		CorrelationID: cID,
		Email:         identity,
		Code:          code,
		TTLSeconds:    int64(ttl / time.Second),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := b.client.Publish(ctx, event.VerificationCodeIssuedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(identity),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
