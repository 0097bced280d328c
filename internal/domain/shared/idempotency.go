package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed message IDs to prevent duplicate processing
type IdempotencyStore interface {
	// MarkProcessed marks a message as processed with a TTL
	// Returns true if the message was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a message has already been processed
	IsProcessed(ctx context.Context, id string) (bool, error)

	// Release removes a processed mark so the message can be handled again.
	// Used when processing fails after the mark was taken.
	Release(ctx context.Context, id string) error

	// Close closes the store and releases resources
	Close() error
}
