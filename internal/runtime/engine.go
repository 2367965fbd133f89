package runtime

import (
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Engine holds the deployment-wide dispatch configuration and creates Dispatchers.
// It is safe to share; the Dispatchers it creates are not.
type Engine struct {
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	stateless bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStateless switches delivery to stateless mode: no State is materialized or touched.
func WithStateless(stateless bool) EngineOption {
	return func(e *Engine) {
		e.stateless = stateless
	}
}

// NewEngine creates an engine. The default mode is stateful.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stateful reports the delivery mode.
func (e *Engine) Stateful() bool {
	return !e.stateless
}

// NewDispatcher creates a Dispatcher for one logical thread of control.
func (e *Engine) NewDispatcher() *Dispatcher {
	return &Dispatcher{engine: e}
}
