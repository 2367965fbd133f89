package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TreeURI is the resource exposing the component tree outline.
const TreeURI = "arbor://tree"

// DispatchResponse reports the outcome of a dispatch tool call.
type DispatchResponse struct {
	SessionID    string  `json:"session_id" jsonschema_description:"The session the message was dispatched into"`
	Delivered    bool    `json:"delivered" jsonschema_description:"True if delivery completed without error"`
	Error        string  `json:"error,omitempty" jsonschema_description:"Delivery error, if any"`
	Materialized [][]int `json:"materialized" jsonschema_description:"Component paths that hold a State after the dispatch"`
}

// Server wraps a session.Manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: dispatch
	dispatchTool := mcp.NewTool("dispatch",
		mcp.WithDescription("Dispatch a message into a session's component tree."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to dispatch into")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Message type")),
		mcp.WithBoolean("multicast", mcp.Description("Deliver to every child at the end of the route")),
		mcp.WithString("path", mcp.Description("JSON array of child indices from the root (optional)")),
		mcp.WithString("call", mcp.Description("Slash-separated child IDs to call instead of following a path, e.g. body/list")),
		mcp.WithString("payload", mcp.Description("JSON payload (optional)")),
		mcp.WithOutputSchema[DispatchResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: get_tree
	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the component tree outline for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.sessions.Engine().Inspect())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: prune_session
	s.mcpServer.AddTool(mcp.NewTool("prune_session",
		mcp.WithDescription("Discard a session's State tree."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to prune")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := request.GetArguments()["session_id"].(string)
		if id == "" {
			return mcp.NewToolResultError("session_id is required"), nil
		}
		if err := s.sessions.Prune(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("pruned " + id), nil
	})
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DispatchResponse, error) {
	id, _ := args["session_id"].(string)
	msgType, _ := args["type"].(string)
	if id == "" || msgType == "" {
		return DispatchResponse{}, errors.New("session_id and type are required")
	}

	var payload any
	if raw, ok := args["payload"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return DispatchResponse{}, fmt.Errorf("invalid payload: %w", err)
		}
	}
	var path []int
	if raw, ok := args["path"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &path); err != nil {
			return DispatchResponse{}, fmt.Errorf("invalid path: %w", err)
		}
	}

	msg := domain.NewMessage(msgType, payload)
	if multicast, _ := args["multicast"].(bool); multicast {
		msg = domain.NewMulticast(msgType, payload)
	}

	var err error
	if call, ok := args["call"].(string); ok && call != "" {
		err = s.sessions.Call(ctx, id, msg, strings.Split(strings.Trim(call, "/"), "/")...)
	} else {
		err = s.sessions.Dispatch(ctx, id, msg, path...)
	}

	resp := DispatchResponse{SessionID: id, Delivered: err == nil}
	if err != nil {
		s.logger.Warn("MCP Dispatch failed", "session_id", id, "message_type", msgType, "err", err)
		resp.Error = err.Error()
	}
	if state, ok := s.sessions.State(id); ok {
		resp.Materialized = s.sessions.Engine().Inspect().Materialized(state)
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "Component Tree Outline",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.sessions.Engine().Inspect())
		if err != nil {
			return nil, fmt.Errorf("failed to inspect tree: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TreeURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
