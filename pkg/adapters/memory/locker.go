package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
)

// Locker implements ports.DistributedLocker within a single process.
// Useful for tests and single-replica deployments.
type Locker struct {
	mu   sync.Mutex
	held map[string]*hold
}

type hold struct {
	released chan struct{}
	expires  time.Time
}

var _ ports.DistributedLocker = (*Locker)(nil)

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{
		held: make(map[string]*hold),
	}
}

// Lock blocks until key is free or ctx is done. A hold older than its ttl is treated as free.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		h, busy := l.held[key]
		if busy && ttl > 0 && time.Now().After(h.expires) {
			l.drop(key, h)
			busy = false
		}
		if !busy {
			mine := &hold{released: make(chan struct{}), expires: time.Now().Add(ttl)}
			l.held[key] = mine
			l.mu.Unlock()
			return func(context.Context) error {
				l.mu.Lock()
				defer l.mu.Unlock()
				if l.held[key] == mine {
					l.drop(key, mine)
				}
				return nil
			}, nil
		}
		l.mu.Unlock()

		wait := time.Until(h.expires)
		if wait <= 0 {
			wait = time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-h.released:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// drop releases h; the caller holds l.mu.
func (l *Locker) drop(key string, h *hold) {
	delete(l.held, key)
	close(h.released)
}
