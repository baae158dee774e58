package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/llm"
)

// resetFlags restores every flag to its default between command runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and captures its output
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLLMConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.LLM.AdvancedModel = "custom-pro"
	cfg.LLM.Temperature = 0.7

	c := llmConfig(&cfg)

	assert.Equal(t, "custom-pro", c.GetModel(llm.TierAdvanced))
	assert.Equal(t, llm.DefaultConfig().GetModel(llm.TierLite), c.GetModel(llm.TierLite))
	assert.InDelta(t, 0.7, c.Temperature, 1e-6)
}

func TestRequirements(t *testing.T) {
	cfg := config.Defaults()
	assert.ErrorContains(t, requireAPIKey(&cfg), "GEMINI_API_KEY")
	assert.ErrorContains(t, requireDatabase(&cfg), "DATABASE_URL")

	cfg.GeminiAPIKey = "k"
	cfg.DatabaseURL = "postgres://localhost/db"
	require.NoError(t, requireAPIKey(&cfg))
	require.NoError(t, requireDatabase(&cfg))
}

func TestLoadConfig_LogLevelOverride(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	logLevel = "bogus"

	_, err := loadConfig()
	assert.ErrorContains(t, err, "config error")
}
