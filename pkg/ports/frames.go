package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// FrameSource allocates Frame identities, one per atomic processing batch.
type FrameSource interface {
	Next(ctx context.Context) (domain.Frame, error)
}
