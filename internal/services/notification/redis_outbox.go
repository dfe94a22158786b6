package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultOutboxKey = "notifications:outbox"

// RedisOutbox is a Publisher backed by a redis list. Publish pushes to the
// head and Run pops from the tail, so delivery is FIFO and survives restarts
// of the API process.
type RedisOutbox struct {
	client      *redis.Client
	key         string
	pollTimeout time.Duration
	backoff     time.Duration
}

func NewRedisOutbox(client *redis.Client, key string) *RedisOutbox {
	if key == "" {
		key = DefaultOutboxKey
	}
	return &RedisOutbox{
		client:      client,
		key:         key,
		pollTimeout: 5 * time.Second,
		backoff:     time.Second,
	}
}

func (o *RedisOutbox) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := o.client.LPush(ctx, o.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// Next blocks up to the poll timeout for the oldest queued message. It
// returns nil, nil when the queue stayed empty.
func (o *RedisOutbox) Next(ctx context.Context) (*Message, error) {
	res, err := o.client.BRPop(ctx, o.pollTimeout, o.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue notification: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
	}

	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return &msg, nil
}

// Run delivers queued messages through sender until ctx is cancelled.
// Delivery failures are logged and the message is dropped.
func (o *RedisOutbox) Run(ctx context.Context, sender Sender) {
	for ctx.Err() == nil {
		msg, err := o.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("⚠️ Notification outbox: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.backoff):
			}
			continue
		}
		if msg == nil {
			continue
		}
		if err := sender.Send(ctx, *msg); err != nil {
			log.Printf("⚠️ Failed to deliver %s notification to %s: %v", msg.Kind, msg.To, err)
		}
	}
}
