// Package connectors assembles the workspace capability clients.
//
// Each client lives in its own package under google/ and implements
// driven.CapabilityClient. NewWorkspaceClients wires them to one
// credential provider.
package connectors
