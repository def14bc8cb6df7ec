package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog-api/pkg/config"
	"blog-api/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName = "blog_notifications"
	NotificationExchange  = "blog.notifications"
)

const (
	TaskTypeComment = "comment"
	TaskTypeVote    = "vote"
)

// NotificationTask tells a post author that someone interacted with their post.
type NotificationTask struct {
	Type     string `json:"type"`
	UserID   uint   `json:"user_id"`
	ActorID  uint   `json:"actor_id"`
	PostID   uint   `json:"post_id"`
	IsLike   *bool  `json:"is_like,omitempty"`
	Priority int    `json:"priority"`
}

// ErrDropTask tells the consumer to discard a task instead of requeueing it.
var ErrDropTask = errors.New("drop notification task")

var errConsumerClosed = errors.New("notification consumer channel closed")

// TaskHandler processes one delivered task.
type TaskHandler func(ctx context.Context, task NotificationTask) error

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []string{TaskTypeComment, TaskTypeVote} {
		if err := channel.QueueBind(NotificationQueueName, key, NotificationExchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishNotificationTask routes the task by its type; priority is clamped to 0-10.
func (c *Client) PublishNotificationTask(ctx context.Context, task NotificationTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		NotificationExchange, // exchange
		task.Type,            // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     ClampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", NotificationExchange, task.Type, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published notification task routing_key=%s: %s", task.Type, string(body))
	return nil
}

func ClampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return uint8(p)
}

// ConsumeNotificationTasks blocks, handing every delivery to handler until ctx
// is cancelled or the broker closes the channel. Tasks that fail a second
// time are dropped rather than requeued again.
func (c *Client) ConsumeNotificationTasks(ctx context.Context, prefetch int, handler TaskHandler) error {
	if err := c.channel.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := c.channel.ConsumeWithContext(ctx,
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from notification queue: %s", NotificationQueueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errConsumerClosed
			}

			switch dispatch(ctx, msg.Body, msg.Redelivered, handler, c.logger) {
			case outcomeAck:
				_ = msg.Ack(false)
			case outcomeRequeue:
				_ = msg.Nack(false, true)
			default:
				_ = msg.Nack(false, false)
			}
		}
	}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeReject
)

func dispatch(ctx context.Context, body []byte, redelivered bool, handler TaskHandler, log *logger.Logger) outcome {
	var task NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		log.Error("[RABBITMQ] Failed to unmarshal notification task: %v, body=%s", err, string(body))
		return outcomeReject
	}

	err := handler(ctx, task)
	switch {
	case err == nil:
		return outcomeAck
	case errors.Is(err, ErrDropTask):
		log.Warn("[RABBITMQ] Dropping %s task for post %d: %v", task.Type, task.PostID, err)
		return outcomeReject
	case redelivered:
		log.Error("[RABBITMQ] Task failed after redelivery, dropping: %v, task=%+v", err, task)
		return outcomeReject
	default:
		log.Error("[RABBITMQ] Handler failed, requeueing: %v, task=%+v", err, task)
		return outcomeRequeue
	}
}
