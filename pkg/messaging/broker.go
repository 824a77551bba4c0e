package messaging

import "context"

// Broker publishes platform events to interested consumers. Publishing is
// fire-and-forget from the caller's perspective; delivery failures are logged
// and never fail the originating operation.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Topics
const (
	TopicModeration = "platform.moderation"
	TopicDeletion   = "platform.deletion"
)
