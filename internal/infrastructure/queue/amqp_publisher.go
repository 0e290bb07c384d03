package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/creativehub/services-hub/internal/core/domain"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Publisher announces accepted submissions on a durable RabbitMQ queue so
// that a notifier can email the team. It is a ports.SubmissionSink.
type Publisher struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch amqpChannel
	// open returns a fresh channel with the queue declared.
	open func() (amqpChannel, error)
}

// NewPublisher dials url and declares queue as durable.
func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	p := &Publisher{conn: conn, queue: queue}
	p.open = func() (amqpChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("amqp channel: %w", err)
		}
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("amqp queue declare: %w", err)
		}
		return ch, nil
	}

	if p.ch, err = p.open(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

// channel returns the current channel, reopening it when the broker has
// closed it. Callers hold p.mu.
func (p *Publisher) channel() (amqpChannel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.open == nil {
		return nil, amqp.ErrClosed
	}
	ch, err := p.open()
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) Name() string { return "amqp" }

// Deliver publishes s as a persistent JSON message.
func (p *Publisher) Deliver(ctx context.Context, s domain.Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    s.ID,
		Type:         string(s.Kind),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		if ch, err = p.channel(); err == nil {
			err = ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
		}
	}
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Ping reports whether the broker connection is open and a channel can be
// used, reopening a channel the broker closed.
func (p *Publisher) Ping(context.Context) error {
	if p.conn != nil && p.conn.IsClosed() {
		return amqp.ErrClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channel(); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var chErr error
	if p.ch != nil && !p.ch.IsClosed() {
		chErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}
	return chErr
}
