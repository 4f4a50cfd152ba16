// Package mcp exposes the gating engine as MCP tools so AI agents can
// invoke the gate directly over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bob-stewart/HardShell/internal/classify"
	"github.com/bob-stewart/HardShell/internal/engine"
	"github.com/bob-stewart/HardShell/internal/store"
)

// Server wraps the engine and ledger and exposes them as MCP tools.
type Server struct {
	engine *engine.Engine
	ledger store.Store
}

// NewServer creates the MCP server wrapper. ledger may be nil; the
// history tool then reports an empty list.
func NewServer(e *engine.Engine, ledger store.Store) *Server {
	return &Server{engine: e, ledger: ledger}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("hardshell", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.crosscheckTool())
	srv.AddTool(s.classifyTool())
	srv.AddTool(s.historyTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// hardshell_crosscheck
func (s *Server) crosscheckTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("hardshell_crosscheck",
		mcp.WithDescription("Run the change-gating crosscheck: classify surfaces, enforce the evidence requirement, and fan the change out to the reviewer panel. Returns the run result as JSON with outcome noop, converged, or escalated."),
		mcp.WithString("summary", mcp.Required(), mcp.Description("One-line summary of the proposed change")),
		mcp.WithString("evidence_id", mcp.Description("Id of the corroborating evidence bundle; required for gateable changes")),
		mcp.WithString("files", mcp.Description("Comma-separated changed file paths")),
		mcp.WithBoolean("warmup", mcp.Description("Force warmup mode (supermajority quorum, runs even for non-gateable changes)")),
	)
	return tool, s.handleCrosscheck
}

func (s *Server) handleCrosscheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := request.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: summary"), nil
	}

	res, err := s.engine.Run(ctx, engine.Params{
		Summary:      summary,
		EvidenceID:   request.GetString("evidence_id", ""),
		ForceWarmup:  request.GetBool("warmup", false),
		ChangedFiles: splitList(request.GetString("files", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("crosscheck failed: %v", err)), nil
	}

	data, err := json.Marshal(res)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// hardshell_classify
func (s *Server) classifyTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("hardshell_classify",
		mcp.WithDescription("Classify changed file paths into risk surfaces without running a review. Returns the surface set and whether the change is gateable."),
		mcp.WithString("files", mcp.Required(), mcp.Description("Comma-separated changed file paths")),
	)
	return tool, s.handleClassify
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := request.RequireString("files")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: files"), nil
	}

	surfaces := classify.Paths(splitList(files))

	result := map[string]any{
		"surfaces": surfaces.Sorted(),
		"gateable": surfaces.Gateable(),
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// hardshell_history
func (s *Server) historyTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("hardshell_history",
		mcp.WithDescription("List prior gating runs, newest first. Returns a JSON array with case id, outcome, severity, and surfaces."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (default 20)")),
	)
	return tool, s.handleHistory
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)

	type runOut struct {
		ID        string   `json:"id"`
		CaseID    string   `json:"case_id"`
		Summary   string   `json:"summary"`
		Outcome   string   `json:"outcome"`
		Severity  string   `json:"severity,omitempty"`
		Converged bool     `json:"converged"`
		Surfaces  []string `json:"surfaces"`
		CreatedAt string   `json:"created_at"`
	}

	out := []runOut{}
	if s.ledger != nil {
		runs, err := s.ledger.ListRuns(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
		}
		for _, r := range runs {
			out = append(out, runOut{
				ID:        r.ID,
				CaseID:    r.CaseID,
				Summary:   r.Summary,
				Outcome:   r.Outcome,
				Severity:  r.Severity,
				Converged: r.Converged,
				Surfaces:  r.Surfaces,
				CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal runs: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// splitList parses a comma- or newline-separated path list.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
