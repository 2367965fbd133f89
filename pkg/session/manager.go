package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager keeps one State tree per session and serializes dispatch into each of them.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	engine *arbor.Engine

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	statesMu sync.RWMutex
	states   map[string]domain.State

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Session Manager dispatching through engine.
func NewManager(engine *arbor.Engine, opts ...Option) *Manager {
	m := &Manager{
		engine:  engine,
		locks:   make(map[string]*lockEntry),
		states:  make(map[string]domain.State),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Engine returns the engine sessions dispatch through.
func (m *Manager) Engine() *arbor.Engine {
	return m.engine
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// State returns the root State of a session, if it has one.
func (m *Manager) State(sessionID string) (domain.State, bool) {
	m.statesMu.RLock()
	defer m.statesMu.RUnlock()
	s, ok := m.states[sessionID]
	return s, ok
}

// rootState returns the session's root State, creating it on first use.
// The caller holds the session lock.
func (m *Manager) rootState(sessionID string) (domain.State, error) {
	if !m.engine.Stateful() {
		return nil, nil
	}
	if s, ok := m.State(sessionID); ok {
		return s, nil
	}

	s, err := m.engine.NewRootState()
	if err != nil {
		return nil, err
	}
	m.statesMu.Lock()
	m.states[sessionID] = s
	m.statesMu.Unlock()

	m.logger.Debug("session created", "session_id", sessionID)
	return s, nil
}

// Dispatch delivers m into the session's State tree along path, as one batch.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, msg domain.Message, path ...int) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.rootState(sessionID)
		if err != nil {
			return err
		}
		return m.engine.Dispatch(ctx, state, msg, path...)
	})
}

// Call delivers m to the named descendant within the session's State tree.
func (m *Manager) Call(ctx context.Context, sessionID string, msg domain.Message, names ...string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.rootState(sessionID)
		if err != nil {
			return err
		}
		return m.engine.Call(ctx, state, msg, names...)
	})
}

// Prune discards a session's State tree.
func (m *Manager) Prune(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.statesMu.Lock()
		defer m.statesMu.Unlock()
		if _, ok := m.states[sessionID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		delete(m.states, sessionID)
		return nil
	})
}

// List returns the IDs of sessions holding a State tree, sorted.
func (m *Manager) List() []string {
	m.statesMu.RLock()
	ids := make([]string, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	m.statesMu.RUnlock()
	slices.Sort(ids)
	return ids
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
