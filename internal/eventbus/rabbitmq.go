package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"github.com/bhavya257/fast-backend/config"
)

const (
	// For publisher confirms
	publishTimeout = 5 * time.Second
)

// RabbitMQPublisher manages a publish-only RabbitMQ connection with
// publisher confirms. This service emits events; it never consumes.
type RabbitMQPublisher struct {
	config        config.Config
	connection    *amqp.Connection
	channel       *amqp.Channel
	notifyConfirm chan amqp.Confirmation
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the outgoing
// exchange.
func NewRabbitMQPublisher(cfg config.Config) (*RabbitMQPublisher, error) {
	pub := &RabbitMQPublisher{config: cfg}
	if err := pub.connect(); err != nil {
		return nil, err
	}
	return pub, nil
}

func (pub *RabbitMQPublisher) connect() error {
	log.Info().Str("url", pub.config.RabbitMQURL).Msg("Attempting to connect to RabbitMQ")
	conn, err := amqp.Dial(pub.config.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	pub.connection = conn

	pub.channel, err = conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	// Enable publisher confirms on this channel
	if err := pub.channel.Confirm(false); err != nil {
		return fmt.Errorf("channel could not be put into confirm mode: %w", err)
	}
	pub.notifyConfirm = make(chan amqp.Confirmation, 1)
	pub.channel.NotifyPublish(pub.notifyConfirm)

	log.Info().Str("exchange", pub.config.OutgoingExchangeName).Str("type", pub.config.OutgoingExchangeType).Msg("Declaring outgoing exchange")
	err = pub.channel.ExchangeDeclare(
		pub.config.OutgoingExchangeName, // name
		pub.config.OutgoingExchangeType, // type
		true,                            // durable
		false,                           // auto-deleted
		false,                           // internal
		false,                           // no-wait
		nil,                             // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare outgoing exchange %s: %w", pub.config.OutgoingExchangeName, err)
	}

	log.Info().Msg("RabbitMQ connected and channel initialized successfully")
	return nil
}

// PublishMessage sends a message to the outgoing exchange and waits for the
// broker's confirmation.
func (pub *RabbitMQPublisher) PublishMessage(ctx context.Context, routingKey string, payload interface{}) error {
	if pub.channel == nil {
		return errors.New("producer not ready")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	log.Debug().Str("exchange", pub.config.OutgoingExchangeName).Str("routingKey", routingKey).RawJSON("body", body).Msg("Publishing message")

	err = pub.channel.Publish(
		pub.config.OutgoingExchangeName, // exchange
		routingKey,                      // routing key
		false,                           // mandatory
		false,                           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-pub.notifyConfirm:
		if confirm.Ack {
			log.Debug().Uint64("tag", confirm.DeliveryTag).Msg("Message published and confirmed")
			return nil
		}
		return errors.New("message published but not confirmed by broker")
	case <-time.After(publishTimeout):
		return errors.New("publish confirmation timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the channel and connection down.
func (pub *RabbitMQPublisher) Close() {
	if pub.channel != nil {
		pub.channel.Close()
	}
	if pub.connection != nil && !pub.connection.IsClosed() {
		pub.connection.Close()
	}
}
