package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
	dialAttempts   = 5
)

// ErrPermanent marks a handler failure that must not be retried.
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so the consumer rejects the delivery without requeue.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

type Client struct {
	mu           sync.Mutex
	url          string
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewClient dials url, retrying with exponential backoff, and declares the
// exchange and queue.
func NewClient(ctx context.Context, url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	var err error
	for attempt := 0; attempt < dialAttempts; attempt++ {
		if err = client.connect(); err == nil {
			return client, nil
		}
		if !isConnectionError(err) {
			break
		}
		wait := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP connection failed, retrying",
			"attempt", attempt+1,
			"backoff", wait,
			"error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, err
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.conn = conn
	c.channel = channel
	if err := c.setup(); err != nil {
		c.closeLocked()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}
	return nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name on a direct exchange
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	// one unacked report at a time per worker
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

// PublishExportRequest publishes msg as a persistent JSON message. A broken
// connection is re-established once before giving up.
func (c *Client) PublishExportRequest(ctx context.Context, msg *ExportRequestMessage) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid export request: %w", err)
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.publishLocked(ctx, body)
	if err != nil && isConnectionError(err) {
		slog.WarnContext(ctx, "AMQP publish failed, reconnecting", "error", err)
		c.closeLocked()
		if rerr := c.connect(); rerr != nil {
			return fmt.Errorf("reconnect: %w", rerr)
		}
		err = c.publishLocked(ctx, body)
	}
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published export request",
		"profile_id", msg.ProfileID,
		"period", msg.Period,
		"year", msg.Year,
		"month", msg.Month,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publishLocked(ctx context.Context, body []byte) error {
	if c.channel == nil {
		return errors.New("channel not open: connection closed")
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// ExportHandler processes one export request.
type ExportHandler func(ctx context.Context, msg *ExportRequestMessage) error

// ConsumeExportRequests delivers export requests to handler until ctx is
// cancelled. Deliveries are acked on success, rejected when the body is
// malformed or the handler returns a Permanent error, and requeued otherwise.
func (c *Client) ConsumeExportRequests(ctx context.Context, handler ExportHandler) error {
	c.mu.Lock()
	if c.channel == nil {
		c.mu.Unlock()
		return errors.New("channel not open")
	}
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming export requests", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			settle(ctx, amqpDelivery{&d}, handler)
		}
	}
}

// delivery is the subset of amqp091.Delivery used to settle a message.
type delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
	body() []byte
}

type amqpDelivery struct{ *amqp091.Delivery }

func (d amqpDelivery) body() []byte { return d.Body }

func settle(ctx context.Context, d delivery, handler ExportHandler) {
	msg, err := ExportRequestMessageFromJSON(d.body())
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode export request", "error", err)
		d.Nack(false, false)
		return
	}

	slog.InfoContext(ctx, "Processing export request",
		"profile_id", msg.ProfileID,
		"period", msg.Period)

	if err := handler(ctx, msg); err != nil {
		requeue := !errors.Is(err, ErrPermanent)
		slog.ErrorContext(ctx, "Failed to handle export request",
			"error", err,
			"profile_id", msg.ProfileID,
			"requeue", requeue)
		d.Nack(false, requeue)
		return
	}

	d.Ack(false)
	slog.InfoContext(ctx, "Export request processed", "profile_id", msg.ProfileID)
}

// HealthCheck reports whether the connection is open.
func (c *Client) HealthCheck(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("AMQP connection closed")
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	var err error
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "connection closed", "eof", "broken pipe", "closed network connection", "connection reset", "no such host"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
