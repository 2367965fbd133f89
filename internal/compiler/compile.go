package compiler

import (
	"context"
	"slices"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/pkg/chain"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
)

// Compile builds a bound component tree from spec.
//
// Branches relay unless relay is false; components with emit raise that event after
// every message; branches stop the event types listed in handle and bubble the rest.
func Compile(spec dto.NodeSpec) ports.Component {
	var c ports.Component
	if spec.IsLeaf() {
		c = node.NewLeaf(spec.ID, options(spec, node.Ignore)...)
	} else {
		b := node.NewBranch(spec.ID, options(spec, node.Relay)...)
		for _, child := range spec.Children {
			node.Bind(b, Compile(child))
		}
		c = b
	}

	if spec.Emit != "" {
		c = chain.Wrap(c, nil, []chain.Handler{emitter(spec.Emit)})
	}
	return c
}

func options(spec dto.NodeSpec, base node.MessageFunc) []node.Option {
	var opts []node.Option
	if spec.StateDepth != nil {
		opts = append(opts, node.WithStateDepth(*spec.StateDepth))
	}

	handler := base
	if spec.Relay != nil && !*spec.Relay {
		handler = node.Ignore
	}
	opts = append(opts, node.OnMessage(handler))

	if len(spec.Handle) > 0 {
		handled := slices.Clone(spec.Handle)
		opts = append(opts, node.OnEvent(func(ctx context.Context, d ports.Dispatcher, e domain.Event) error {
			if slices.Contains(handled, e.Type) {
				return nil
			}
			return d.HandleEvent(ctx, e)
		}))
	}
	return opts
}

// emitter raises an event of eventType carrying the message payload.
func emitter(eventType string) chain.Handler {
	return func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		return d.HandleEvent(ctx, domain.NewEvent(eventType, m.Payload))
	}
}
