// Package app provides the main Tomo application: wiring between the Matrix
// transport, the SQLite stores, the reply generator and the daily scheduler.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdobrica/Tomo/internal/tomo/diary"
	"github.com/bdobrica/Tomo/internal/tomo/fallback"
	"github.com/bdobrica/Tomo/internal/tomo/llm"
	"github.com/bdobrica/Tomo/internal/tomo/matrix"
	"github.com/bdobrica/Tomo/internal/tomo/reply"
	"github.com/bdobrica/Tomo/internal/tomo/scheduler"
	"github.com/bdobrica/Tomo/internal/tomo/store"
	"github.com/bdobrica/Tomo/internal/tomo/users"
)

// Supported LLM provider selectors.
const (
	ProviderNone     = "none"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Config holds application configuration.
type Config struct {
	DatabasePath string
	Matrix       matrix.Config

	// LLMProvider selects the generation backend: none, openai or deepseek.
	// "none" (or a selected provider without an API key) runs the service
	// entirely on the local template fallback.
	LLMProvider string

	OpenAIAPIKey   string
	OpenAIModel    string
	DeepSeekAPIKey string
	DeepSeekModel  string

	// LLMTimeout is the per-attempt HTTP timeout for generation calls.
	LLMTimeout time.Duration

	// LLMMaxConcurrency caps in-flight generation calls. Defaults to 2.
	LLMMaxConcurrency int

	// HistoryWindow is how many recent diary turns the talk prompt carries.
	// Defaults to 6.
	HistoryWindow int

	// TrialMessages is the free daily message quota. Defaults to 30.
	TrialMessages int

	// PaymentURL is offered in the over-quota message when set.
	PaymentURL string

	// FloodLimit caps messages per sender per minute. Defaults to 20.
	FloodLimit int

	// DailyHourMSK is the MSK hour of the daily check-in push. Defaults to 20.
	DailyHourMSK int

	// PoolsPath optionally points at a YAML line-pack overlaying the
	// built-in fallback pools.
	PoolsPath string
}

// App is the main Tomo application.
type App struct {
	config  *Config
	store   *store.Store
	matrix  *matrix.Client
	handler *Handler
	daily   *scheduler.Daily
}

// New creates a new Tomo application.
func New(config *Config) (*App, error) {
	slog.Info("opening database", "path", config.DatabasePath)
	st, err := store.New(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	// Inject the DB so the client can persist the sync token across restarts.
	matrixCfg := config.Matrix
	matrixCfg.DB = st.DB()
	slog.Info("connecting to Matrix", "homeserver", matrixCfg.Homeserver)
	matrixClient, err := matrix.New(&matrixCfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("initialize Matrix client: %w", err)
	}

	selector, err := buildSelector(config.PoolsPath)
	if err != nil {
		st.Close()
		return nil, err
	}

	gen := reply.NewGenerator(reply.Config{
		Provider:    buildProvider(config),
		Selector:    selector,
		MaxInFlight: config.LLMMaxConcurrency,
	})

	userStore := users.NewStore(st.DB())
	diaryStore := diary.NewStore(st.DB())

	handler := NewHandler(HandlerConfig{
		Users:         userStore,
		Diary:         diaryStore,
		Gen:           gen,
		Sender:        matrixClient,
		FloodLimit:    config.FloodLimit,
		HistoryWindow: config.HistoryWindow,
		TrialLimit:    config.TrialMessages,
		PaymentURL:    config.PaymentURL,
	})

	daily := scheduler.New(matrixClient, userStore, scheduler.Config{
		Hour:    config.DailyHourMSK,
		Compose: composeDailyPush(gen),
	})

	return &App{
		config:  config,
		store:   st,
		matrix:  matrixClient,
		handler: handler,
		daily:   daily,
	}, nil
}

// Run starts the application and blocks until an interrupt signal.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Info("starting Matrix sync")
	if err := a.matrix.Start(ctx, a.handler.HandleMessage); err != nil {
		return fmt.Errorf("start Matrix client: %w", err)
	}

	go a.daily.Run(ctx)

	slog.Info("Tomo is running; press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	return nil
}

// Stop stops the application.
func (a *App) Stop() {
	slog.Info("stopping Matrix client")
	a.matrix.Stop()

	slog.Info("closing database")
	a.store.Close()
}

// buildSelector loads the optional YAML line-pack, or falls back to the
// built-in pools.
func buildSelector(path string) (*fallback.Selector, error) {
	if path == "" {
		return fallback.NewSelector(nil), nil
	}
	pools, err := fallback.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load line pack: %w", err)
	}
	slog.Info("fallback line pack loaded", "path", path)
	return fallback.NewSelector(pools), nil
}

// buildProvider constructs the LLM client for the configured backend, or
// nil when generation is disabled.  A selected provider with no API key
// degrades to nil so a misconfigured deployment still converses via the
// template fallback.
func buildProvider(config *Config) llm.Provider {
	switch config.LLMProvider {
	case ProviderOpenAI:
		if config.OpenAIAPIKey == "" {
			slog.Warn("LLM provider openai selected but no API key; using template fallback only")
			return nil
		}
		slog.Info("LLM provider ready", "provider", ProviderOpenAI, "model", config.OpenAIModel)
		return llm.NewClient(llm.Config{
			APIKey:  config.OpenAIAPIKey,
			BaseURL: llm.OpenAIBaseURL,
			Model:   config.OpenAIModel,
			Timeout: config.LLMTimeout,
		})
	case ProviderDeepSeek:
		if config.DeepSeekAPIKey == "" {
			slog.Warn("LLM provider deepseek selected but no API key; using template fallback only")
			return nil
		}
		model := config.DeepSeekModel
		if model == "" {
			model = "deepseek-chat"
		}
		slog.Info("LLM provider ready", "provider", ProviderDeepSeek, "model", model)
		return llm.NewClient(llm.Config{
			APIKey:  config.DeepSeekAPIKey,
			BaseURL: llm.DeepSeekBaseURL,
			Model:   model,
			Timeout: config.LLMTimeout,
		})
	default:
		slog.Info("LLM generation disabled; using template fallback only")
		return nil
	}
}

// composeDailyPush renders the evening check-in for one user in their
// current mode's voice.
func composeDailyPush(gen *reply.Generator) func(ctx context.Context, u *users.User) string {
	return func(ctx context.Context, u *users.User) string {
		switch u.Mode {
		case users.ModeSupport:
			return "Немного поддержки на вечер.\n" + gen.Support(ctx, "")
		case users.ModeMotivate:
			return "Вечерний настрой.\n" + gen.Motivate(ctx, "")
		default:
			return "Вечерний привет. Хочешь итог дня? Напиши «Итог дня»."
		}
	}
}
