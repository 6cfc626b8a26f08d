package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the model provider, agent tuning, Google credential
locations and the chat bridge.

Settings live in ~/.wsagent/config.toml. API keys and Slack tokens may also
come from the environment (GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,
GEMINI_API_KEY, SLACK_BOT_TOKEN, SLACK_SIGNING_SECRET).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Choose the model provider used to understand requests and validate it.

Without --provider the command asks interactively.`,
	Example: `  wsagent settings llm
  wsagent settings llm --provider anthropic --model claude-3-5-haiku-latest
  wsagent settings llm --provider ollama --model llama3.2`,
	RunE: runSettingsLLM,
}

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

var (
	llmProvider string
	llmModel    string
	llmAPIKey   string
)

func init() {
	settingsLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "provider name, skips the prompt")
	settingsLLMCmd.Flags().StringVar(&llmModel, "model", "", "model name (default: the provider's default)")
	settingsLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key (default: the provider's environment variable)")

	settingsCmd.AddCommand(settingsShowCmd, settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

// row is one "Key: value" line of settings show.
type row struct{ key, value string }

func settingsSections(s *domain.AppSettings) []struct {
	title string
	rows  []row
} {
	llm := []row{{"Provider", s.LLM.Provider.Description()}, {"Model", s.LLM.Model}}
	if s.LLM.BaseURL != "" {
		llm = append(llm, row{"Base URL", s.LLM.BaseURL})
	}
	if s.LLM.Provider.RequiresAPIKey() {
		llm = append(llm, row{"API Key", secret(s.LLM.APIKey, "not set, export "+s.LLM.Provider.APIKeyEnv())})
	}
	llm = append(llm, row{"Status", onOff(s.LLM.IsConfigured(), "configured", "not configured")})

	return []struct {
		title string
		rows  []row
	}{
		{"LLM", llm},
		{"Agent", []row{
			{"History size", strconv.Itoa(s.Agent.HistorySize)},
			{"Max tokens", strconv.Itoa(s.Agent.MaxTokens)},
			{"Temperature", strconv.FormatFloat(s.Agent.Temperature, 'f', 2, 64)},
			{"Parallel steps", strconv.Itoa(s.Agent.MaxParallelSteps)},
		}},
		{"Google", []row{
			{"Credentials file", s.Google.CredentialsFile},
			{"Token file", s.Google.TokenFile},
		}},
		{"Bridge", []row{
			{"Address", s.Bridge.Addr},
			{"Slack token", secret(s.Bridge.SlackToken, "not set")},
			{"Signature verification", onOff(s.Bridge.SigningSecret != "", "on", "off")},
			{"Rate limit", fmt.Sprintf("%d/min per IP", s.Bridge.RequestsPerMinute)},
		}},
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, section := range settingsSections(settings) {
		cmd.Printf("\n[%s]\n", section.title)
		for _, r := range section.rows {
			cmd.Printf("  %s: %s\n", r.key, r.value)
		}
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'wsagent settings llm' to fix configuration issues.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	choice := llmChoice{model: llmModel, apiKey: llmAPIKey}
	if llmProvider == "" {
		if err := promptLLMChoice(cmd, bufio.NewReader(stdin), &choice); err != nil {
			return err
		}
	} else {
		choice.provider = domain.AIProvider(strings.ToLower(llmProvider))
		if !choice.provider.IsValid() {
			return fmt.Errorf("unknown provider %q: %w", llmProvider, domain.ErrInvalidInput)
		}
		if choice.model == "" {
			choice.model = domain.DefaultLLMModels()[choice.provider]
		}
	}
	return applyLLMChoice(cmd, choice)
}

type llmChoice struct {
	provider domain.AIProvider
	model    string
	apiKey   string
}

func promptLLMChoice(cmd *cobra.Command, reader *bufio.Reader, c *llmChoice) error {
	providers := domain.AllLLMProviders()
	cmd.Println("Select LLM Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	c.provider = providers[parseChoice(readLine(reader), len(providers), 1)-1]

	fallback := domain.DefaultLLMModels()[c.provider]
	cmd.Printf("Enter model name [%s]: ", fallback)
	if c.model = readLine(reader); c.model == "" {
		c.model = fallback
	}

	if c.provider.RequiresAPIKey() {
		cmd.Printf("Enter API key (leave empty to use %s): ", c.provider.APIKeyEnv())
		c.apiKey = readPassword(reader)
		cmd.Println()
	}
	return nil
}

func applyLLMChoice(cmd *cobra.Command, c llmChoice) error {
	if c.provider.RequiresAPIKey() && c.apiKey == "" && os.Getenv(c.provider.APIKeyEnv()) == "" {
		return fmt.Errorf("API key is required for %s", c.provider.Description())
	}
	if err := settingsService.SetLLMProvider(c.provider, c.model, c.apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(commandContext(cmd)); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	cmd.Printf("LLM provider configured: %s (%s)\n\n", c.provider.Description(), c.model)
	return nil
}

func secret(value, missing string) string {
	if value == "" {
		return "(" + missing + ")"
	}
	return maskAPIKey(value)
}

func onOff(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
