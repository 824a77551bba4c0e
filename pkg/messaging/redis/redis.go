package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/devtogether/platform-api/pkg/messaging"
)

type broker struct {
	client *redis.Client
}

// NewBroker connects to Redis and returns a pub/sub publisher.
func NewBroker(url string) (messaging.Broker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &broker{client: client}, nil
}

func (b *broker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *broker) Close() error {
	return b.client.Close()
}
