// Package main is the entry point for the resume studio server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "resume_studio",
	Short:         "AI resume generation server and tools",
	Long:          "Resume Studio analyzes job descriptions, lets you pick the skills to emphasize and rewrites your resume for the role.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates settings, applying CLI overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if logLevel != "" {
		merged.Log.Level = logLevel
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// llmConfig applies model overrides from settings
func llmConfig(cfg *config.Config) *llm.Config {
	c := llm.DefaultConfig()
	overrides := map[llm.ModelTier]string{
		llm.TierLite:     cfg.LLM.LiteModel,
		llm.TierStandard: cfg.LLM.StandardModel,
		llm.TierAdvanced: cfg.LLM.AdvancedModel,
	}
	for tier, model := range overrides {
		if model != "" {
			c = c.WithModel(tier, model)
		}
	}
	if cfg.LLM.Temperature > 0 {
		c.Temperature = cfg.LLM.Temperature
	}
	return c
}

func requireAPIKey(cfg *config.Config) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or gemini_api_key in the config file)")
	}
	return nil
}

func requireDatabase(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}
