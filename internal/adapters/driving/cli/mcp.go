package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the agent to AI assistants over MCP",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the workspace_request tool and the services and history
resources over the Model Context Protocol.

Stdio is the default, which is what desktop assistants launch:

  {"mcpServers": {"wsagent": {"command": "wsagent", "args": ["mcp", "serve"]}}}

--port or --addr switches to streamable HTTP at /mcp instead.`,
	Example: `  wsagent mcp serve
  wsagent mcp serve --port 8080
  wsagent mcp serve --addr 127.0.0.1:8080`,
	RunE: runMCPServe,
}

var (
	mcpPort int
	mcpAddr string
)

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port on all interfaces")
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "serve HTTP on host:port (overrides --port)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// mcpListenAddr is empty when the server should speak stdio.
func mcpListenAddr() string {
	switch {
	case mcpAddr != "":
		return mcpAddr
	case mcpPort > 0:
		return fmt.Sprintf(":%d", mcpPort)
	}
	return ""
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	agent, err := buildAgent(ctx)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Agent: agent, History: historyService}, mcp.WithVersion(version))
	if err != nil {
		return err
	}
	startWatcher(ctx)

	addr := mcpListenAddr()
	if addr == "" {
		return server.Run(ctx)
	}
	cmd.PrintErrf("MCP server listening on http://%s%s\n", addr, mcp.Endpoint)
	return server.RunHTTP(ctx, addr)
}
