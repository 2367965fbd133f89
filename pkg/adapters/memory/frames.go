package memory

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// FrameSource allocates frames from a process-local counter.
type FrameSource struct {
	next atomic.Uint64
}

var _ ports.FrameSource = (*FrameSource)(nil)

// NewFrameSource creates a source whose first frame is start+1.
func NewFrameSource(start uint64) *FrameSource {
	f := &FrameSource{}
	f.next.Store(start)
	return f
}

func (f *FrameSource) Next(ctx context.Context) (domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return domain.Frame{}, err
	}
	return domain.FrameOf(f.next.Add(1)), nil
}
