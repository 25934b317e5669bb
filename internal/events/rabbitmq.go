package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// confirmation is the broker's answer to one publish.
// *amqp.DeferredConfirmation satisfies it.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// confirmingChannel publishes a message and hands back the confirmation for
// that message's delivery tag.
type confirmingChannel interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (c amqpChannel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

// RabbitMQPublisher publishes events to a topic exchange and waits for the
// broker to confirm each one.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	out      confirmingChannel
	exchange string
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewRabbitMQPublisher dials url, declares exchange as a durable topic
// exchange and puts the channel into confirm mode.
func NewRabbitMQPublisher(url, exchange string, logger zerolog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	l := logger.With().Str("component", "events").Logger()
	l.Info().Str("exchange", exchange).Msg("rabbitmq publisher ready")

	return &RabbitMQPublisher{
		conn:     conn,
		ch:       ch,
		out:      amqpChannel{ch: ch},
		exchange: exchange,
		timeout:  publishTimeout,
		logger:   l,
	}, nil
}

// Publish sends the event with its type as routing key and waits for the
// broker to confirm that message. Cancelling ctx does not abort the publish;
// only the publish timeout does.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	conf, err := p.out.Publish(ctx, p.exchange, string(event.Type), amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    event.OccurredAt,
		MessageId:    event.OrderID.String(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm %s: %w", event.Type, err)
	}
	if !ack {
		return fmt.Errorf("broker rejected %s", event.Type)
	}

	p.logger.Debug().
		Str("type", string(event.Type)).
		Str("order_id", event.OrderID.String()).
		Msg("event published")
	return nil
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
