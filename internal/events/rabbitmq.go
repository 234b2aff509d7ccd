package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	publishTimeout = 5 * time.Second
	reconnectDelay = 5 * time.Second
)

// amqpChannel - часть *amqp.Channel, нужная издателю.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	IsClosed() bool
	Close() error
}

// RabbitMQPublisher публикует события об изменении тендеров в topic exchange.
type RabbitMQPublisher struct {
	mu           sync.RWMutex
	conn         *amqp.Connection
	channel      amqpChannel
	openChannel  func() (amqpChannel, error)
	exchangeName string
	url          string
	done         chan struct{}
	logger       zerolog.Logger
}

// NewRabbitMQPublisher подключается к брокеру и объявляет exchange.
func NewRabbitMQPublisher(url, exchangeName string, logger zerolog.Logger) (*RabbitMQPublisher, error) {
	publisher := &RabbitMQPublisher{
		exchangeName: exchangeName,
		url:          url,
		done:         make(chan struct{}),
		logger:       logger,
	}
	// вызывается под p.mu
	publisher.openChannel = func() (amqpChannel, error) {
		if publisher.conn == nil || publisher.conn.IsClosed() {
			return nil, errors.New("RabbitMQ connection is closed")
		}
		channel, err := declareChannel(publisher.conn, exchangeName)
		if err != nil {
			return nil, err
		}
		return channel, nil
	}
	if err := publisher.connect(); err != nil {
		return nil, err
	}

	go publisher.handleReconnect()

	logger.Info().Str("exchange", exchangeName).Msg("RabbitMQ publisher initialized")
	return publisher, nil
}

func (p *RabbitMQPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := declareChannel(conn, p.exchangeName)
	if err != nil {
		conn.Close()
		return err
	}

	p.mu.Lock()
	p.conn = conn
	p.channel = channel
	p.mu.Unlock()
	return nil
}

func declareChannel(conn *amqp.Connection, exchangeName string) (*amqp.Channel, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return channel, nil
}

// reopenChannel открывает новый канал поверх живого соединения.
func (p *RabbitMQPublisher) reopenChannel() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}
	channel, err := p.openChannel()
	if err != nil {
		return fmt.Errorf("failed to reopen channel: %w", err)
	}
	p.channel = channel
	p.logger.Info().Msg("RabbitMQ channel reopened")
	return nil
}

func (p *RabbitMQPublisher) currentChannel() (amqpChannel, error) {
	p.mu.RLock()
	channel := p.channel
	p.mu.RUnlock()

	if channel != nil && !channel.IsClosed() {
		return channel, nil
	}
	if err := p.reopenChannel(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.channel, nil
}

// RoutingKey возвращает ключ маршрутизации для результата сверки.
func RoutingKey(outcome models.UpsertOutcome) string {
	return "tender." + string(outcome)
}

// PublishTenderChange публикует tender.created или tender.updated.
func (p *RabbitMQPublisher) PublishTenderChange(ctx context.Context, event models.TenderChangeEvent) error {
	return p.publish(ctx, RoutingKey(event.Outcome), event)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
		MessageId:    uuid.NewString(),
	}

	channel, err := p.currentChannel()
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	err = channel.PublishWithContext(ctx, p.exchangeName, routingKey, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		// канал закрылся между проверкой и публикацией
		if channel, err = p.currentChannel(); err == nil {
			err = channel.PublishWithContext(ctx, p.exchangeName, routingKey, false, false, msg)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug().Str("routing_key", routingKey).Int("body_size", len(body)).Msg("message published")
	return nil
}

// handleReconnect восстанавливает канал или соединение после их закрытия до вызова Close.
func (p *RabbitMQPublisher) handleReconnect() {
	for {
		p.mu.RLock()
		connClose := p.conn.NotifyClose(make(chan *amqp.Error, 1))
		channelClose := p.channel.NotifyClose(make(chan *amqp.Error, 1))
		p.mu.RUnlock()

		select {
		case <-p.done:
			return
		case closeErr := <-connClose:
			if closeErr == nil {
				return
			}
			p.logger.Error().Err(closeErr).Msg("RabbitMQ connection closed, attempting to reconnect")
		case closeErr := <-channelClose:
			if closeErr == nil {
				return
			}
			if !p.connectionClosed() {
				p.logger.Error().Err(closeErr).Msg("RabbitMQ channel closed, reopening")
				if !p.retryUntilDone(p.reopenChannel) {
					return
				}
				continue
			}
			p.logger.Error().Err(closeErr).Msg("RabbitMQ connection closed, attempting to reconnect")
		}

		if !p.retryUntilDone(p.connect) {
			return
		}
		p.logger.Info().Msg("reconnected to RabbitMQ")
	}
}

func (p *RabbitMQPublisher) connectionClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn == nil || p.conn.IsClosed()
}

// retryUntilDone повторяет fn с паузой reconnectDelay; false - издатель закрыт.
func (p *RabbitMQPublisher) retryUntilDone(fn func() error) bool {
	for {
		select {
		case <-p.done:
			return false
		case <-time.After(reconnectDelay):
		}
		if err := fn(); err != nil {
			p.logger.Error().Err(err).Msg("failed to restore RabbitMQ connection")
			continue
		}
		return true
	}
}

// Close закрывает канал и соединение.
func (p *RabbitMQPublisher) Close() error {
	close(p.done)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close RabbitMQ connection: %w", err)
		}
	}
	return nil
}

// HealthCheck проверяет состояние соединения и канала.
func (p *RabbitMQPublisher) HealthCheck(_ context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("RabbitMQ connection is closed")
	}
	if p.channel == nil || p.channel.IsClosed() {
		return errors.New("RabbitMQ channel is closed")
	}
	return nil
}
