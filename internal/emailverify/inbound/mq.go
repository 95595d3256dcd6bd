package inbound

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mailotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/shared/event"
)

// RegisterMQConsumer starts the issued code mailer on routine. It returns
// false when the goroutine manager refuses the job.
func RegisterMQConsumer(
	ctx context.Context,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
	concurrency int,
) bool {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // nsq channel, nats queue group, kafka group
		handler messaging.Handler
	}{
		{
			name:    event.VerificationCodeIssuedConsumerMailer,
			topic:   event.VerificationCodeIssuedDestination,
			group:   event.VerificationCodeIssuedConsumerMailer,
			handler: mqHandler.VerificationCodeIssued,
		},
	}

	started := true
	for _, consumer := range consumers {
		ok := routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithGroup(consumer.group),
				messaging.WithConcurrency(concurrency),
			)
		})
		if !ok {
			slog.ErrorContext(ctx, "failed to start consumer", "consumer", consumer.name)
			started = false
		}
	}

	return started
}
