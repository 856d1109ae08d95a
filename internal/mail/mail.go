package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/myblog/blog/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultOutboxKey is the Redis list messages are queued on.
const DefaultOutboxKey = "blog:mail:outbox"

// Message is a plain-text email.
type Message struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	From    string   `json:"from"`
	To      []string `json:"to"`
}

// Sender hands a message off for delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// RedisOutbox queues messages on a Redis list for an external delivery worker.
type RedisOutbox struct {
	client *redis.Client
	key    string
}

func NewRedisOutbox(client *redis.Client, key string) *RedisOutbox {
	if key == "" {
		key = DefaultOutboxKey
	}
	return &RedisOutbox{client: client, key: key}
}

func (o *RedisOutbox) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mail: encode message: %w", err)
	}
	if err := o.client.RPush(ctx, o.key, payload).Err(); err != nil {
		return fmt.Errorf("mail: enqueue: %w", err)
	}
	logger.Debugf("mail queued on %s for %v", o.key, msg.To)
	return nil
}

// LogSender only logs messages. Used when no Redis is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	logger.Infof("mail to=%v from=%s subject=%q", msg.To, msg.From, msg.Subject)
	return nil
}
