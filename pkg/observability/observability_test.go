package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = errors.New("rejected")

func newTree() ports.Component {
	return dsl.New("root").
		Leaf("ok").
		Leaf("picky", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			if m.Type == "bad" {
				return errRejected
			}
			return d.HandleEvent(ctx, domain.NewEvent("seen", nil))
		})).
		MustBuild()
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, err := arbor.New(newTree(), arbor.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	state, err := eng.NewRootState()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, metrics.Track(func() error {
		return eng.Dispatch(ctx, state, domain.NewMulticast("good", nil))
	}))
	err = metrics.Track(func() error {
		return eng.Dispatch(ctx, state, domain.NewMessage("bad", nil), 1)
	})
	require.ErrorIs(t, err, errRejected)

	expected := `
# HELP arbor_states_created_total States materialized on first visit.
# TYPE arbor_states_created_total counter
arbor_states_created_total{component="ok"} 1
arbor_states_created_total{component="picky"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "arbor_states_created_total"))

	n, err := testutil.GatherAndCount(reg, "arbor_dispatch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per result")

	n, err = testutil.GatherAndCount(reg, "arbor_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "collectors cannot be registered twice")
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.FormatText, slog.LevelDebug)

	eng, err := arbor.New(newTree(), arbor.WithLifecycleHooks(domain.MergeHooks(
		observability.LogHooks(logger),
	)))
	require.NoError(t, err)
	state, err := eng.NewRootState()
	require.NoError(t, err)

	_ = eng.Dispatch(context.Background(), state, domain.NewMessage("bad", nil), 1)

	out := buf.String()
	assert.Contains(t, out, "state created")
	assert.Contains(t, out, "delivery failed")
	assert.Contains(t, out, "err=rejected")
}
