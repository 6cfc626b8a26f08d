package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/bridge"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// PosterFactory builds the chat poster for a bot token.
type PosterFactory func(token string) driven.ChatPoster

// ServeConfig holds the collaborators of the serve command.
type ServeConfig struct {
	// Poster builds the reply channel. Required.
	Poster PosterFactory

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

var serveConfig *ServeConfig

// SetServeConfig sets the configuration for the serve command.
func SetServeConfig(config *ServeConfig) {
	serveConfig = config
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Slack chat bridge",
	Long: `Listen for Slack Events API callbacks and answer channel messages with
the agent.

Routes:
  POST /slack/events  Slack Events API request URL
  GET  /healthz       liveness probe
  GET  /metrics       Prometheus metrics

Requires a Slack token (bridge.slack_token or SLACK_BOT_TOKEN). Set
bridge.signing_secret or SLACK_SIGNING_SECRET to verify requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides bridge.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if serveConfig == nil || serveConfig.Poster == nil {
		return errors.New("chat poster not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.Bridge.SlackToken == "" {
		return errors.New("slack token not configured: set bridge.slack_token or SLACK_BOT_TOKEN")
	}

	cfg := bridge.Config{
		Addr:              settings.Bridge.Addr,
		SigningSecret:     settings.Bridge.SigningSecret,
		RequestsPerMinute: settings.Bridge.RequestsPerMinute,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	ctx := commandContext(cmd)
	agent, err := buildAgent(ctx)
	if err != nil {
		return err
	}

	var opts []bridge.Option
	if serveConfig.Metrics != nil {
		opts = append(opts, bridge.WithMetricsHandler(serveConfig.Metrics))
	}

	server, err := bridge.NewServer(agent, serveConfig.Poster(settings.Bridge.SlackToken), cfg, opts...)
	if err != nil {
		return err
	}

	if cfg.SigningSecret == "" {
		cmd.PrintErrln("Warning: no signing secret configured, Slack requests are not verified.")
	}
	cmd.Printf("Chat bridge listening on %s\n", cfg.Addr)

	startWatcher(ctx)
	return server.Run(ctx)
}
