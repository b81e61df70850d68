// Package events publishes ledger domain events to RabbitMQ. Consumers
// (statement generators, notification senders) bind to the topic exchange
// declared here.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

// RabbitMQPublisher implements domain.EventPublisher on top of a RabbitMQ
// topic exchange.
type RabbitMQPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

// transactionAppliedEvent is the wire shape of a published event.
type transactionAppliedEvent struct {
	EventType       string `json:"eventType"`
	TransactionID   string `json:"transactionId"`
	AccountNumber   string `json:"accountNumber"`
	TransactionType string `json:"transactionType"`
	Amount          string `json:"amount"`
	NewBalance      string `json:"newBalance"`
	Timestamp       string `json:"timestamp"`
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the exchange.
func NewRabbitMQPublisher(url, exchange, routingKey string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// PublishTransactionApplied publishes a persistent JSON message describing
// an applied transaction.
func (p *RabbitMQPublisher) PublishTransactionApplied(ctx context.Context, receipt *domain.Receipt) error {
	event := transactionAppliedEvent{
		EventType:       "transaction.applied",
		TransactionID:   receipt.TransactionID.String(),
		AccountNumber:   receipt.AccountNumber,
		TransactionType: string(receipt.Type),
		Amount:          receipt.Amount.String(),
		NewBalance:      receipt.NewBalance.String(),
		Timestamp:       receipt.CreatedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close releases the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return p.conn.Close()
}
