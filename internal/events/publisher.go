package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/streadway/amqp"
)

// Exchange is the topic exchange notifications are exported to.
const Exchange = "notifications"

// RoutingKey addresses a notification for downstream consumers:
// notification.user.<id>, notification.role.<role> or notification.broadcast.
func RoutingKey(n *models.Notification) string {
	switch {
	case n.UserID != "":
		return "notification.user." + string(n.UserID)
	case n.RecipientRole != "":
		return "notification.role." + n.RecipientRole
	default:
		return "notification.broadcast"
	}
}

// Publisher exports notifications to RabbitMQ.
type Publisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Publish(n *models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("events: marshal notification: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(
		Exchange,
		RoutingKey(n),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID,
			Timestamp:    n.Timestamp,
			Type:         n.Type,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		p.ch.Close()
	}
	return p.conn.Close()
}
