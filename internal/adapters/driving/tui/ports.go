// Package tui provides the interactive chat terminal UI for the workspace
// agent. It is a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Agent handles requests typed by the user.
	Agent driving.Agent

	// ModelName is shown in the header. Optional.
	ModelName string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Agent == nil {
		return ErrMissingAgent
	}
	return nil
}
