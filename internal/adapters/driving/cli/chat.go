package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// WatchFunc watches user-editable files until ctx is done.
type WatchFunc func(ctx context.Context) error

// promptWatcher hot-reloads prompts in long-running commands. Optional.
var promptWatcher WatchFunc

// SetPromptWatcher sets the watcher started by chat, serve and mcp serve.
func SetPromptWatcher(w WatchFunc) {
	promptWatcher = w
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Open a terminal chat with the agent. The conversation is kept between
requests so follow-ups like "reply to the last one" work.

Controls:
  Enter    - Send request
  Ctrl+R   - Start a new conversation
  PgUp/Dn  - Scroll the transcript
  F1       - Toggle help
  Esc      - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	agent, err := buildAgent(ctx)
	if err != nil {
		return err
	}

	ports := &tui.Ports{Agent: agent}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			ports.ModelName = settings.LLM.Model
		}
	}

	// Log lines would tear the alt screen.
	logger.SetOutput(io.Discard)
	startWatcher(ctx)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startWatcher runs the prompt watcher in the background until ctx is done.
func startWatcher(ctx context.Context) {
	if promptWatcher == nil {
		return
	}
	go func() {
		if err := promptWatcher(ctx); err != nil {
			logger.Warn("prompt watcher stopped: %v", err)
		}
	}()
}
