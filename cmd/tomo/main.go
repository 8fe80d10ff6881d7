package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bdobrica/Tomo/common/environment"
	"github.com/bdobrica/Tomo/common/version"
	"github.com/bdobrica/Tomo/internal/tomo/app"
	"github.com/bdobrica/Tomo/internal/tomo/matrix"
)

func main() {
	fmt.Printf("Tomo Conversational Companion\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	config := loadConfig()

	if config.Matrix.Homeserver == "" {
		fmt.Fprintf(os.Stderr, "Error: MATRIX_HOMESERVER is required\n")
		os.Exit(1)
	}
	if config.Matrix.UserID == "" {
		fmt.Fprintf(os.Stderr, "Error: MATRIX_USER_ID is required\n")
		os.Exit(1)
	}
	if config.Matrix.AccessToken == "" {
		fmt.Fprintf(os.Stderr, "Error: MATRIX_ACCESS_TOKEN is required\n")
		os.Exit(1)
	}
	switch config.LLMProvider {
	case app.ProviderNone, app.ProviderOpenAI, app.ProviderDeepSeek:
	default:
		fmt.Fprintf(os.Stderr, "Error: LLM_PROVIDER must be one of none, openai, deepseek (got %q)\n", config.LLMProvider)
		os.Exit(1)
	}

	tomo, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize Tomo: %v\n", err)
		os.Exit(1)
	}
	defer tomo.Stop()

	if err := tomo.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running Tomo: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration from environment variables.
func loadConfig() *app.Config {
	return &app.Config{
		DatabasePath: environment.StringOr("DATABASE_PATH", "./tomo.db"),
		Matrix: matrix.Config{
			Homeserver:  environment.StringOr("MATRIX_HOMESERVER", ""),
			UserID:      environment.StringOr("MATRIX_USER_ID", ""),
			AccessToken: environment.StringOr("MATRIX_ACCESS_TOKEN", ""),
		},

		LLMProvider:    environment.StringOr("LLM_PROVIDER", app.ProviderNone),
		OpenAIAPIKey:   environment.StringOr("OPENAI_API_KEY", ""),
		OpenAIModel:    environment.StringOr("OPENAI_MODEL", "gpt-4o-mini"),
		DeepSeekAPIKey: environment.StringOr("DEEPSEEK_API_KEY", ""),
		DeepSeekModel:  environment.StringOr("DEEPSEEK_MODEL", "deepseek-chat"),

		LLMTimeout:        environment.DurationOr("LLM_TIMEOUT", 12*time.Second),
		LLMMaxConcurrency: environment.IntOr("LLM_MAX_CONCURRENCY", 2),
		HistoryWindow:     environment.IntOr("HISTORY_MAX_MSGS", 6),
		TrialMessages:     environment.IntOr("TRIAL_MESSAGES", 30),
		PaymentURL:        environment.StringOr("PAYMENT_URL", ""),
		FloodLimit:        environment.IntOr("FLOOD_LIMIT", app.DefaultFloodLimit),
		DailyHourMSK:      environment.IntOr("DAILY_HOUR_MSK", 20),
		PoolsPath:         environment.StringOr("LINE_PACK_PATH", ""),
	}
}
