package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// dialFunc opens a channel along with the connection that owns it.
type dialFunc func() (channel, io.Closer, error)

// AMQPPublisher publishes events to a durable topic exchange, routed by
// event type. A publish that finds the channel closed redials once and
// retries, so a broker restart does not require a process restart.
type AMQPPublisher struct {
	mu       sync.Mutex
	dial     dialFunc
	conn     io.Closer
	channel  channel
	exchange string
	closed   bool
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	return newAMQPPublisher(func() (channel, io.Closer, error) {
		conn, err := amqp091.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("dial AMQP: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open channel: %w", err)
		}
		return ch, conn, nil
	}, exchange)
}

func newAMQPPublisher(dial dialFunc, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{dial: dial, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect opens a fresh channel and declares the exchange. Callers hold mu,
// except during construction.
func (p *AMQPPublisher) connect() error {
	ch, conn, err := p.dial()
	if err != nil {
		return err
	}
	err = ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		if conn != nil {
			conn.Close()
		}
		return fmt.Errorf("declare exchange: %w", err)
	}
	p.channel, p.conn = ch, conn
	return nil
}

// disconnect drops the current channel and connection, ignoring close errors.
func (p *AMQPPublisher) disconnect() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// Publish sends event as a persistent JSON message. Channels are not safe for
// concurrent publishing, so calls are serialized.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if p.channel != nil {
		err = p.send(ctx, event.Type, msg)
		if err == nil || !errors.Is(err, amqp091.ErrClosed) {
			return wrapPublishErr(event.Type, err)
		}
		p.disconnect()
	}

	if err := p.connect(); err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	return wrapPublishErr(event.Type, p.send(ctx, event.Type, msg))
}

func (p *AMQPPublisher) send(ctx context.Context, key string, msg amqp091.Publishing) error {
	return p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
}

func wrapPublishErr(eventType string, err error) error {
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// Close closes the channel and the underlying connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}
