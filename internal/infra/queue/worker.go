package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/usecase"
)

// Worker drains the side channel: notification rows, audit rows and
// outbound email all happen here, after the primary operation already
// answered the client.
type Worker struct {
	Channel       *amqp.Channel
	Notifications entity.NotificationRepository
	Audits        entity.AuditLogRepository
	Mailer        usecase.Mailer
}

func NewWorker(ch *amqp.Channel, notifications entity.NotificationRepository, audits entity.AuditLogRepository, mailer usecase.Mailer) *Worker {
	return &Worker{
		Channel:       ch,
		Notifications: notifications,
		Audits:        audits,
		Mailer:        mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("[WORKER] consumer registration failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload SideChannelPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[WORKER] malformed payload, dead-lettering: %s", err)
				// Poison message. Reject without requeue so it cannot
				// wedge the queue.
				d.Nack(false, false)
				continue
			}

			if err := w.process(context.Background(), payload); err != nil {
				log.Printf("[WORKER] %s processing failed: %s", payload.Kind, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] side-channel worker waiting on queue %q", queueName)
	<-forever
}

func (w *Worker) process(ctx context.Context, payload SideChannelPayload) error {
	switch payload.Kind {
	case KindNotification:
		n := entity.NewNotification(payload.UserID, payload.Message, payload.LeadID)
		return w.Notifications.Create(ctx, n)

	case KindAudit:
		a := entity.NewAuditLog(payload.ActorID, payload.Action, payload.Entity, payload.EntityID, payload.Detail)
		return w.Audits.Create(ctx, a)

	case KindEmail:
		return w.Mailer.Send(payload.To, payload.Subject, payload.Body)

	default:
		// Unknown kinds get acked and dropped; there is nothing useful
		// to retry.
		log.Printf("[WORKER] unknown payload kind %q, dropping", payload.Kind)
		return nil
	}
}
