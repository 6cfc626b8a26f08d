package mcp

import (
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Agent handles workspace requests.
	Agent driving.Agent

	// History exposes recently handled requests. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Agent == nil {
		return ErrMissingAgent
	}
	return nil
}
