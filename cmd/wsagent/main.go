// Command wsagent is a natural-language agent for Google Workspace.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/ai"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/auth"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/chat/slack"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/metrics"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/cli"
	"github.com/custodia-labs/workspace-agent/internal/connectors"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
	"github.com/custodia-labs/workspace-agent/internal/core/services"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	logger.FromEnv()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open config: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	prompts, err := file.NewPromptStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open prompts: %v\n", err)
		return 1
	}

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load settings: %v\n", err)
		return 1
	}

	tokens, err := auth.NewFileTokenStore(settings.Google.TokenFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: token store: %v\n", err)
		return 1
	}

	// Missing client secrets only matter for sign-in and token refresh.
	oauthConfig, err := auth.LoadOAuthConfig(settings.Google.CredentialsFile)
	if err != nil {
		logger.Debug("OAuth client secrets unavailable: %v", err)
	}
	credentials := auth.NewOAuthProvider(tokens, oauthConfig)

	var authorizer driven.Authorizer
	if oauthConfig != nil {
		authorizer = auth.NewGoogleAuthorizer(oauthConfig)
	}
	authService := services.NewAuthService(authorizer, tokens, credentials)

	store, err := sqlite.NewStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open history: %v\n", err)
		return 1
	}
	defer store.Close()
	activities := store.ActivityStore()

	recorder := metrics.NewRecorder()

	agentFactory := func(ctx context.Context) (driving.Agent, error) {
		return buildAgent(ctx, settingsService, prompts, credentials, activities, recorder)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Agent:    agentFactory,
		History:  services.NewHistoryService(activities),
		Settings: settingsService,
		Auth:     authService,
	})
	cli.SetPromptWatcher(func(ctx context.Context) error {
		return prompts.Watch(ctx, nil)
	})
	cli.SetServeConfig(&cli.ServeConfig{
		Poster:  func(token string) driven.ChatPoster { return slack.NewPoster(token) },
		Metrics: recorder.Handler(),
	})

	if err := cli.Execute(ctx); err != nil {
		if !errors.Is(err, cli.ErrRequestFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// buildAgent wires the model, the workspace clients and the request pipeline.
func buildAgent(
	ctx context.Context,
	settingsService driving.SettingsService,
	prompts driven.PromptStore,
	credentials driven.CredentialProvider,
	activities driven.ActivityStore,
	recorder *metrics.Recorder,
) (driving.Agent, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	llm, err := ai.CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		return nil, err
	}

	completion := services.NewCompletionProvider(recorder.InstrumentLLM(llm),
		services.WithHistorySize(settings.Agent.HistorySize),
		services.WithChatOptions(settings.Agent.MaxTokens, settings.Agent.Temperature),
		services.WithPromptStore(prompts),
	)

	clients, err := connectors.NewWorkspaceClients(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("create workspace clients: %w", err)
	}

	planner := services.NewPlanner(completion, prompts, settings.Agent.MaxParallelSteps)
	router := services.NewRouter(clients, planner)
	extractor := services.NewIntentExtractor(completion, prompts)

	agent := services.NewAgent(extractor, router, completion)
	agent.SetActivityStore(activities)
	agent.SetMetricsRecorder(recorder)
	return agent, nil
}
