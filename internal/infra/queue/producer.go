package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	KindNotification = "NOTIFICATION"
	KindAudit        = "AUDIT"
	KindEmail        = "EMAIL"
)

// SideChannelPayload carries one best-effort write. Exactly the fields
// for its Kind are set; the rest stay zero.
type SideChannelPayload struct {
	Kind string `json:"kind"`

	UserID  string  `json:"user_id,omitempty"`
	Message string  `json:"message,omitempty"`
	LeadID  *string `json:"lead_id,omitempty"`

	ActorID  string `json:"actor_id,omitempty"`
	Action   string `json:"action,omitempty"`
	Entity   string `json:"entity,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
	Detail   string `json:"detail,omitempty"`

	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Producer publishes side-channel payloads. It satisfies
// usecase.Dispatcher; callers treat a returned error as log-and-continue.
type Producer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) publish(ctx context.Context, payload SideChannelPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payload marshal failed: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("side-channel publish failed: %w", err)
	}
	return nil
}

func (p *Producer) DispatchNotification(ctx context.Context, userID, message string, leadID *string) error {
	return p.publish(ctx, SideChannelPayload{
		Kind:    KindNotification,
		UserID:  userID,
		Message: message,
		LeadID:  leadID,
	})
}

func (p *Producer) DispatchAudit(ctx context.Context, actorID, action, entityName, entityID, detail string) error {
	return p.publish(ctx, SideChannelPayload{
		Kind:     KindAudit,
		ActorID:  actorID,
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Detail:   detail,
	})
}

func (p *Producer) DispatchEmail(ctx context.Context, to, subject, body string) error {
	return p.publish(ctx, SideChannelPayload{
		Kind:    KindEmail,
		To:      to,
		Subject: subject,
		Body:    body,
	})
}
