package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, received *[]string) *Server {
	t.Helper()
	record := func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		*received = append(*received, d.Component().ID()+":"+m.Type)
		return nil
	}
	root := dsl.New("app").
		Branch("body", func(b *dsl.Builder) {
			b.Leaf("list", node.OnMessage(record))
		}).
		MustBuild()
	eng, err := arbor.New(root)
	require.NoError(t, err)
	return NewServer(session.NewManager(eng), nil)
}

func TestHandleDispatch(t *testing.T) {
	var received []string
	s := newServer(t, &received)
	ctx := context.Background()

	resp, err := s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"type":       "select",
		"path":       "[0, 0]",
		"payload":    `{"row": 3}`,
	})
	require.NoError(t, err)
	assert.True(t, resp.Delivered)
	assert.Equal(t, [][]int{nil, {0}, {0, 0}}, resp.Materialized)

	resp, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"type":       "focus",
		"call":       "/body/list",
	})
	require.NoError(t, err)
	assert.True(t, resp.Delivered)
	assert.Equal(t, []string{"list:select", "list:focus"}, received)

	resp, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"type":       "x",
		"path":       "[5]",
	})
	require.NoError(t, err)
	assert.False(t, resp.Delivered)
	assert.Contains(t, resp.Error, "no child 5")
}

func TestHandleDispatch_BadArguments(t *testing.T) {
	var received []string
	s := newServer(t, &received)
	ctx := context.Background()

	_, err := s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{"type": "x"})
	assert.Error(t, err)

	_, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1", "type": "x", "path": "not json",
	})
	assert.ErrorContains(t, err, "invalid path")

	_, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1", "type": "x", "payload": "{",
	})
	assert.ErrorContains(t, err, "invalid payload")
	assert.Empty(t, received)
}
