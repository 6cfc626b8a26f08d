// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// workspace agent. It lets AI assistants hand natural-language workspace
// requests to the agent and read back the uniform Result.
package mcp

import "errors"

// ErrMissingAgent is returned when the agent is not provided.
var ErrMissingAgent = errors.New("mcp: agent is required")
