package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Dispatcher routes messages for one logical thread of control. Obtain one from
// Engine.NewDispatcher; it must not be shared between goroutines.
type Dispatcher = runtime.Dispatcher

// Engine is the high-level entry point for the Arbor library.
// It binds a validated component tree to the internal runtime and provides a simplified
// API for consumers.
type Engine struct {
	root      ports.Component
	runtime   *runtime.Engine
	frames    ports.FrameSource
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	stateless bool
	skipCheck bool
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStateless disables State materialization.
func WithStateless(stateless bool) Option {
	return func(e *Engine) {
		e.stateless = stateless
	}
}

// WithFrameSource replaces the process-local frame counter, e.g. with a Redis-backed one
// when several processes feed the same State trees.
func WithFrameSource(src ports.FrameSource) Option {
	return func(e *Engine) {
		e.frames = src
	}
}

// WithName labels the engine; the name is attached to every log line.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithoutValidation skips the structural check New runs on the tree.
func WithoutValidation() Option {
	return func(e *Engine) {
		e.skipCheck = true
	}
}

// New binds an engine to the component tree rooted at root.
func New(root ports.Component, opts ...Option) (*Engine, error) {
	if root == nil {
		return nil, errors.New("root component is required")
	}
	eng := &Engine{root: root}
	for _, opt := range opts {
		opt(eng)
	}

	if !eng.skipCheck {
		if err := validator.ValidateTree(root); err != nil {
			return nil, err
		}
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name == "" {
		eng.Name = root.ID()
	}
	eng.logger = eng.logger.With("tree", eng.Name)

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithStateless(eng.stateless),
	)
	return eng, nil
}

// Root returns the root component.
func (e *Engine) Root() ports.Component {
	return e.root
}

// Stateful reports whether deliveries materialize States.
func (e *Engine) Stateful() bool {
	return e.runtime.Stateful()
}

// NewRootState creates the State that anchors a new State tree.
func (e *Engine) NewRootState() (domain.State, error) {
	s := e.root.CreateState(nil)
	if s == nil {
		return nil, fmt.Errorf("%w: root '%s' returned no state", domain.ErrIllegalState, e.root.ID())
	}
	s.Link(nil, nil)
	return s, nil
}

// NewDispatcher creates a Dispatcher.
func (e *Engine) NewDispatcher() *Dispatcher {
	return e.runtime.NewDispatcher()
}

// NewFrame allocates the frame for one processing batch.
func (e *Engine) NewFrame(ctx context.Context) (domain.Frame, error) {
	if e.frames == nil {
		return domain.NewFrame(), nil
	}
	f, err := e.frames.Next(ctx)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to allocate frame: %w", err)
	}
	return f, nil
}

// Send delivers m to the root within an existing batch, following path from the root.
// Use it to push several messages through one dispatcher and frame.
func (e *Engine) Send(ctx context.Context, d *Dispatcher, frame domain.Frame, state domain.State, m domain.Message, path ...int) error {
	return d.SendMessage(ctx, frame, m, e.root, state, path)
}

// Dispatch delivers m as a batch of its own: a fresh dispatcher and frame.
func (e *Engine) Dispatch(ctx context.Context, state domain.State, m domain.Message, path ...int) error {
	frame, err := e.NewFrame(ctx)
	if err != nil {
		return err
	}
	return e.Send(ctx, e.NewDispatcher(), frame, state, m, path...)
}

// Call delivers m to the descendant reached by following child IDs from the root.
func (e *Engine) Call(ctx context.Context, state domain.State, m domain.Message, names ...string) error {
	frame, err := e.NewFrame(ctx)
	if err != nil {
		return err
	}
	d := e.NewDispatcher()
	return d.Within(ctx, frame, e.root, state, nil, func(ctx context.Context) error {
		return d.Call(ctx, m, names...)
	})
}

// Inspect returns the shape of the component tree for visualization or introspection tools.
func (e *Engine) Inspect() domain.Outline {
	return ports.Describe(e.root)
}
