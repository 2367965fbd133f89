package runtime

import "slices"

// route is the path cursor: segs[:pos] are consumed, segs[pos:] remain.
type route struct {
	segs []int
	pos  int
}

func (r *route) reset(path []int) {
	r.segs = slices.Clone(path)
	r.pos = 0
}

func (r *route) push() (int, bool) {
	if r.pos >= len(r.segs) {
		return 0, false
	}
	seg := r.segs[r.pos]
	r.pos++
	return seg, true
}

// pop returns the last consumed segment to the front of the remaining queue.
// It is a no-op when nothing has been consumed.
func (r *route) pop() {
	if r.pos > 0 {
		r.pos--
	}
}

func (r *route) remaining() []int {
	return slices.Clone(r.segs[r.pos:])
}

func (r *route) consumed() []int {
	return slices.Clone(r.segs[:r.pos])
}

func (r *route) hasNext() bool {
	return r.pos < len(r.segs)
}
