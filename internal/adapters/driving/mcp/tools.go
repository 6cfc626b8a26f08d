package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// RequestInput is the input schema for the workspace_request tool.
type RequestInput struct {
	Request string `json:"request" jsonschema:"natural-language request, e.g. 'list my unread emails' or 'create a meeting tomorrow at 3pm'"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.sdk, &mcp.Tool{
		Name: "workspace_request",
		Description: "Run a natural-language request against Gmail, Google Calendar, " +
			"Drive, Sheets and Docs. Returns the agent's JSON result.",
	}, s.handleRequest)
}

// handleRequest hands the request to the agent and renders the Result as JSON
// text. Error Results are flagged with IsError rather than returned as Go
// errors so the calling model can read the message.
func (s *Server) handleRequest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RequestInput,
) (*mcp.CallToolResult, any, error) {
	request := strings.TrimSpace(input.Request)
	if request == "" {
		return nil, nil, fmt.Errorf("request is required: %w", domain.ErrInvalidInput)
	}

	s.handleMu.Lock()
	result := s.ports.Agent.Handle(ctx, request)
	s.handleMu.Unlock()

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshalling result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: !result.OK(),
	}, nil, nil
}
