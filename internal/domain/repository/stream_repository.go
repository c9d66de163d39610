package repository

import (
	"context"

	"github.com/prospect-discovery/internal/domain"
)

// StreamRepository is the contract for job queueing over Redis Streams.
type StreamRepository interface {
	// CreateConsumerGroup creates the consumer group, tolerating an
	// already-existing group.
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch reads up to maxCount pending messages without blocking
	// indefinitely.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// AckMessage acknowledges one processed message.
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishToStream appends a JSON-serialized payload to the stream.
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
