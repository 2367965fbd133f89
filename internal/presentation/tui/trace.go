package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/aretw0/arbor/pkg/domain"
)

// TraceWriter prints a colored, indented line per lifecycle event. Deliveries are
// reported when they return, so a parent's line follows its children's.
type TraceWriter struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
}

// NewTraceWriter creates a TraceWriter. Use termenv.Ascii for uncolored output.
func NewTraceWriter(w io.Writer, profile termenv.Profile) *TraceWriter {
	return &TraceWriter{out: w, profile: profile}
}

// Hooks returns lifecycle hooks feeding the trace.
func (t *TraceWriter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDeliver:      t.delivered,
		OnStateCreated: t.stateCreated,
		OnEvent:        t.event,
	}
}

func (t *TraceWriter) delivered(_ context.Context, e *domain.DeliveryEvent) {
	status := t.profile.String("ok").Foreground(t.profile.Color("#4ade80"))
	if e.Err != nil {
		status = t.profile.String("error: " + e.Err.Error()).Foreground(t.profile.Color("#f87171"))
	}
	kind := "targeted"
	if e.Multicast {
		kind = "multicast"
	}
	t.printf(len(e.Path), "%s %s %s %s",
		t.profile.String(e.ComponentID).Bold(),
		t.profile.String(e.MessageType).Foreground(t.profile.Color("#38bdf8")),
		t.profile.String(kind).Faint(),
		status,
	)
}

func (t *TraceWriter) stateCreated(_ context.Context, e *domain.StateEvent) {
	t.printf(len(e.Path), "%s %s",
		t.profile.String("+ state").Foreground(t.profile.Color("#facc15")),
		e.ComponentID,
	)
}

func (t *TraceWriter) event(_ context.Context, e *domain.EventTrace) {
	t.printf(0, "%s %s -> %s",
		t.profile.String("^ "+e.EventType).Foreground(t.profile.Color("#c084fc")),
		e.FromComponentID,
		e.ToComponentID,
	)
}

func (t *TraceWriter) printf(depth int, format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}
