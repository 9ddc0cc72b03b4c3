package messagequeue

import (
	"context"
	"errors"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ErrChannelClosed is returned by Consume when the broker closes the
// delivery channel.
var ErrChannelClosed = errors.New("messagequeue: delivery channel closed")

// RabbitMQService implements the MessageQueue interface using RabbitMQ.
type RabbitMQService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger

	mu       sync.Mutex
	declared map[string]bool
}

// NewRabbitMQServiceConfig contains options for creating a new RabbitMQService.
type NewRabbitMQServiceConfig struct {
	URL string
}

// NewRabbitMQService dials the broker and opens one channel.
func NewRabbitMQService(cfg NewRabbitMQServiceConfig, logger *zap.Logger) (*RabbitMQService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("Connected to RabbitMQ")
	return &RabbitMQService{conn: conn, channel: ch, logger: logger, declared: map[string]bool{}}, nil
}

func (s *RabbitMQService) declare(queueName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.declared[queueName] {
		return nil
	}
	_, err := s.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}
	s.declared[queueName] = true
	return nil
}

// Publish sends a persistent JSON message to a queue.
func (s *RabbitMQService) Publish(ctx context.Context, queueName string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.declare(queueName); err != nil {
		s.logger.Error("Failed to declare queue", zap.String("queue", queueName), zap.Error(err))
		return err
	}

	err := s.channel.Publish(
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		s.logger.Error("Failed to publish message", zap.String("queue", queueName), zap.Error(err))
		return err
	}
	s.logger.Debug("Published message", zap.String("queue", queueName))
	return nil
}

// Consume reads deliveries with manual acknowledgement until ctx is done.
func (s *RabbitMQService) Consume(ctx context.Context, queueName string, handler Handler) error {
	if err := s.declare(queueName); err != nil {
		return err
	}

	msgs, err := s.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return err
	}

	s.logger.Info("Waiting for messages", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return ErrChannelClosed
			}
			if err := handler(ctx, d.Body); err != nil {
				requeue := ShouldRequeue(err, d.Redelivered)
				s.logger.Warn("Message rejected", zap.String("queue", queueName), zap.Bool("requeue", requeue), zap.Error(err))
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close closes the RabbitMQ channel and connection.
func (s *RabbitMQService) Close() error {
	var lastErr error
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			lastErr = err
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		s.logger.Warn("Error closing RabbitMQ", zap.Error(lastErr))
	}
	return lastErr
}
