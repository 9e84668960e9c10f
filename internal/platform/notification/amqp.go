// Package notification implements the outbound notification surface. The core
// reports operation outcomes here; delivery is fire-and-forget and a publish
// failure never propagates into the operation that produced the event.
package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/rabbitmq/amqp091-go"
)

// Exchange is the durable topic exchange all banking events are published to.
const Exchange = "nova.events"

// Routing keys per event family.
const (
	RouteOperationCompleted = "transaction.completed"
	RouteOperationFailed    = "transaction.failed"
	RouteFraudAlert         = "fraud.alert"
	RouteLoanDecided        = "loan.decided"
)

// AMQPNotifier publishes events to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *slog.Logger
}

var _ portssvc.Notifier = (*AMQPNotifier)(nil)

// NewAMQPNotifier dials the broker and opens a channel. The dial is bounded so
// startup does not hang when the broker is down; callers fall back to the
// log notifier on error.
func NewAMQPNotifier(amqpURL string, logger *slog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPNotifier{conn: conn, channel: ch, logger: logger}, nil
}

// Close shuts down the channel and connection.
func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

func (n *AMQPNotifier) publish(ctx context.Context, routingKey string, body any) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		n.logger.Error("Failed to marshal notification payload", slog.String("routing_key", routingKey), slog.String("error", err.Error()))
		return
	}

	err = n.channel.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        jsonBody,
		},
	)
	if err != nil {
		// One-shot retry on a fresh channel; connection-level failures are
		// logged and dropped.
		if n.conn != nil {
			if ch, chErr := n.conn.Channel(); chErr == nil {
				n.channel = ch
				if err = n.channel.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp091.Publishing{
					ContentType: "application/json",
					Timestamp:   time.Now(),
					Body:        jsonBody,
				}); err == nil {
					return
				}
			}
		}
		n.logger.Warn("Failed to publish notification", slog.String("routing_key", routingKey), slog.String("error", err.Error()))
	}
}

// NotifyOperation publishes a transfer engine outcome.
func (n *AMQPNotifier) NotifyOperation(ctx context.Context, event portssvc.OperationEvent) {
	route := RouteOperationCompleted
	if !event.Succeeded {
		route = RouteOperationFailed
	}
	n.publish(ctx, route, event)
}

// NotifyFraudAlert publishes a fraud sentinel alert.
func (n *AMQPNotifier) NotifyFraudAlert(ctx context.Context, event portssvc.FraudAlertEvent) {
	n.publish(ctx, RouteFraudAlert, event)
}

// NotifyLoanDecision publishes a loan decision.
func (n *AMQPNotifier) NotifyLoanDecision(ctx context.Context, event portssvc.LoanDecisionEvent) {
	n.publish(ctx, RouteLoanDecided, event)
}
