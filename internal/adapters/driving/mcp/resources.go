package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

const (
	uriScheme = "workspace://"

	defaultHistoryLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.sdk.AddResource(&mcp.Resource{
		URI:         uriScheme + "services",
		Name:        "services",
		Description: "Workspace services the agent can act on",
		MIMEType:    "application/json",
	}, s.handleServicesResource)

	s.sdk.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently handled requests, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.sdk.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{limit}",
		Name:        "history-limited",
		Description: "The given number of recently handled requests",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleServicesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type serviceInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	services := domain.CapabilityServices()
	infos := make([]serviceInfo, len(services))
	for i, svc := range services {
		infos[i] = serviceInfo{Name: svc.String(), Description: svc.Description()}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleHistoryResource returns recent activities. Without a history port it
// returns an empty list.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	limit, ok := extractHistoryLimit(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	if s.ports.History == nil {
		return jsonResource(req.Params.URI, []any{})
	}

	activities, err := s.ports.History.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type activityInfo struct {
		ID         string    `json:"id"`
		Request    string    `json:"request"`
		Service    string    `json:"service"`
		Action     string    `json:"action"`
		Status     string    `json:"status"`
		Message    string    `json:"message,omitempty"`
		DurationMS int64     `json:"duration_ms"`
		CreatedAt  time.Time `json:"created_at"`
	}

	infos := make([]activityInfo, len(activities))
	for i := range activities {
		a := activities[i]
		infos[i] = activityInfo{
			ID:         a.ID,
			Request:    a.Request,
			Service:    a.Service.String(),
			Action:     a.Action,
			Status:     string(a.Status),
			Message:    a.Message,
			DurationMS: a.Duration.Milliseconds(),
			CreatedAt:  a.CreatedAt,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractHistoryLimit parses workspace://history or workspace://history/{limit}.
func extractHistoryLimit(uri string) (int, bool) {
	const base = uriScheme + "history"

	if uri == base {
		return defaultHistoryLimit, true
	}
	if !strings.HasPrefix(uri, base+"/") {
		return 0, false
	}

	limit, err := strconv.Atoi(strings.TrimPrefix(uri, base+"/"))
	if err != nil || limit <= 0 {
		return 0, false
	}
	return limit, true
}
