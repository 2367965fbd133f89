package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// LogHooks returns lifecycle hooks that write an audit trail to logger.
// Successful deliveries are logged at debug level, failures at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDeliver: func(ctx context.Context, e *domain.DeliveryEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "delivery failed",
					"component", e.ComponentID,
					"path", e.Path,
					"message_type", e.MessageType,
					"frame", e.FrameID,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "delivered",
				"component", e.ComponentID,
				"path", e.Path,
				"message_type", e.MessageType,
				"frame", e.FrameID,
			)
		},
		OnStateCreated: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state created", "component", e.ComponentID, "path", e.Path)
		},
		OnEvent: func(ctx context.Context, e *domain.EventTrace) {
			logger.DebugContext(ctx, "event", "from", e.FromComponentID, "to", e.ToComponentID, "event_type", e.EventType)
		},
	}
}
