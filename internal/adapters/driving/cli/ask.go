package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/render"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Run a single natural-language request",
	Long: `Classify a request, run it against the matching Google service and
print the result. Requests touching several services are split into steps.

Examples:
  wsagent ask "list my unread emails"
  wsagent ask "send an email to bob@example.com saying hi"
  wsagent ask --json "what's on my calendar today"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the raw result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	request := strings.TrimSpace(strings.Join(args, " "))
	if request == "" {
		return fmt.Errorf("request is empty")
	}

	ctx := commandContext(cmd)
	agent, err := buildAgent(ctx)
	if err != nil {
		return err
	}

	result := agent.Handle(ctx, request)

	if askJSON {
		out, err := render.JSON(result)
		if err != nil {
			return err
		}
		cmd.Println(out)
	} else {
		cmd.Println(render.Text(result))
	}

	if !result.OK() {
		return ErrRequestFailed
	}
	return nil
}
