package domain

import (
	"strconv"
	"sync/atomic"
)

var frameSeq atomic.Uint64

// Frame identifies one atomic batch of message processing.
// Only identity matters: ids are unique per process but need not be contiguous.
// The zero Frame means "no frame".
type Frame struct {
	id uint64
}

// NewFrame allocates a frame from the process-wide counter.
func NewFrame() Frame {
	return Frame{id: frameSeq.Add(1)}
}

// FrameOf wraps an externally allocated id (e.g. from a shared sequence).
func FrameOf(id uint64) Frame {
	return Frame{id: id}
}

// ID returns the frame identifier.
func (f Frame) ID() uint64 {
	return f.id
}

// IsZero reports whether f is the "no frame" value.
func (f Frame) IsZero() bool {
	return f.id == 0
}

func (f Frame) String() string {
	return "frame#" + strconv.FormatUint(f.id, 10)
}
