package rabbitmq

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// SettlementQueue is the queue the payment provider posts payment.succeeded
// callbacks to.
const SettlementQueue = "payment.succeeded"

// Client holds the RabbitMQ connection and channels. Publishing and consuming
// share one channel; RPC requests open short-lived channels of their own so
// concurrent requests do not interleave replies.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // guards channel for concurrent publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel, and declares the
// settlement queue upfront.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		SettlementQueue, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", SettlementQueue, err)
	}

	log.Printf("RabbitMQ client connected, %s declared", SettlementQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends body to the named queue on the default exchange as a
// persistent JSON message.
func (c *Client) Publish(queue string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		"",    // exchange: default exchange
		queue, // routing key: the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Request performs an RPC over the default exchange: it publishes body to the
// queue named by routingKey with a CorrelationId and an exclusive reply
// queue, then waits for the matching reply or the timeout. The remote service
// is expected to answer on the ReplyTo queue with the same CorrelationId.
func (c *Client) Request(routingKey string, body []byte, timeout time.Duration) ([]byte, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is not available")
	}

	// A dedicated channel per request keeps concurrent RPCs from consuming
	// each other's replies.
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open RPC channel: %w", err)
	}
	defer ch.Close()

	replyQueue, err := ch.QueueDeclare(
		"",    // name: broker-generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare reply queue: %w", err)
	}

	replies, err := ch.Consume(
		replyQueue.Name, // queue
		"",              // consumer tag
		true,            // auto-ack: replies are fire-and-forget
		true,            // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume reply queue: %w", err)
	}

	correlationID := uuid.New().String()

	err = ch.Publish(
		"",         // exchange: default exchange
		routingKey, // routing key: the remote service's queue
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			ReplyTo:       replyQueue.Name,
			Body:          body,
			Timestamp:     time.Now(),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to publish request: %w", err)
	}

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-replies:
			if !ok {
				return nil, fmt.Errorf("reply channel closed before a response arrived")
			}
			if msg.CorrelationId != correlationID {
				continue // stale reply from an earlier request, skip it
			}
			return msg.Body, nil
		case <-deadline:
			return nil, fmt.Errorf("timed out waiting for reply on %s after %s", routingKey, timeout)
		}
	}
}

// Consume starts delivering messages from the named queue to messageHandler
// in a background goroutine. Messages are acked when the handler returns nil
// and nacked with requeue otherwise.
func (c *Client) Consume(queue string, messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack: set to false to manually acknowledge messages
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				// Requeue so a transient failure gets another delivery.
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
			} else {
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
				}
			}
		}
	}()

	return nil
}
