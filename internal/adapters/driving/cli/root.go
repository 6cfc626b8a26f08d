// Package cli is the cobra command tree for wsagent. Services are injected by
// the composition root through SetServices before Execute is called.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// ErrRequestFailed is returned after an error Result has been printed, so
// the process exits non-zero without repeating the message.
var ErrRequestFailed = errors.New("request failed")

// version is set at build time with -ldflags.
var version = "dev"

// AgentFactory builds the agent on first use so that commands which never
// talk to the model (auth, settings, history) do not need a provider.
type AgentFactory func(ctx context.Context) (driving.Agent, error)

// Services holds the driving ports the commands use.
type Services struct {
	Agent    AgentFactory
	History  driving.HistoryService
	Settings driving.SettingsService
	Auth     driving.AuthService
}

var (
	agentFactory    AgentFactory
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	authService     driving.AuthService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "wsagent",
	Short: "Natural-language agent for Google Workspace",
	Long: `wsagent turns plain-language requests into Gmail, Google Calendar,
Drive, Sheets and Docs operations.

  wsagent ask "list my unread emails"
  wsagent ask "create a meeting with ana tomorrow at 3pm and email her the invite"
  wsagent chat`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.FromEnv()
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	agentFactory = s.Agent
	historyService = s.History
	settingsService = s.Settings
	authService = s.Auth
}

// SetVersion sets the version reported by 'wsagent version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// buildAgent resolves the agent or explains why it is unavailable.
func buildAgent(ctx context.Context) (driving.Agent, error) {
	if agentFactory == nil {
		return nil, errors.New("agent not configured")
	}
	return agentFactory(ctx)
}

// commandContext returns the command context, falling back to Background
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
