package redis

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultFrameKey is the counter key used when no key is configured.
const DefaultFrameKey = "arbor:frame"

// FrameSource allocates frames from a Redis counter, so that replicas feeding the same
// State trees never hand out the same frame twice.
type FrameSource struct {
	client *backend.Client
	key    string
}

var _ ports.FrameSource = (*FrameSource)(nil)

// FrameOption configures a FrameSource.
type FrameOption func(*FrameSource)

// WithFrameKey sets the counter key.
func WithFrameKey(key string) FrameOption {
	return func(f *FrameSource) {
		f.key = key
	}
}

// NewFrameSource creates a FrameSource on client.
func NewFrameSource(client *backend.Client, opts ...FrameOption) *FrameSource {
	f := &FrameSource{
		client: client,
		key:    DefaultFrameKey,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Next increments the counter and returns the new value as a frame.
func (f *FrameSource) Next(ctx context.Context) (domain.Frame, error) {
	id, err := f.client.Incr(ctx, f.key).Result()
	if err != nil {
		return domain.Frame{}, fmt.Errorf("redis error allocating frame: %w", err)
	}
	if id <= 0 {
		return domain.Frame{}, fmt.Errorf("redis counter '%s' returned non-positive frame %d", f.key, id)
	}
	return domain.FrameOf(uint64(id)), nil
}
