package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/intake"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logging"
)

var (
	parseInputFile  string
	parseOutputFile string
	parseSave       bool
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Parse a PDF resume into a resume document",
	Long:  "Extract the text of a PDF resume, structure it with the model and print the resulting resume document as JSON.",
	RunE:  runParseResume,
}

func init() {
	parseResumeCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the PDF resume (required)")
	parseResumeCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Write JSON here instead of stdout")
	parseResumeCmd.Flags().BoolVar(&parseSave, "save", false, "Store the parsed resume in the database")
	_ = parseResumeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}
	if parseSave {
		if err := requireDatabase(cfg); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	svc := intake.NewService(intake.NewPDFParser(client), intake.WithLogger(logging.Component(logger, "intake")))
	doc, err := svc.Upload(ctx, intake.File{Name: filepath.Base(parseInputFile), Data: data})
	if err != nil {
		return err
	}

	if parseSave {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		id, err := database.SaveResume(ctx, *doc)
		if err != nil {
			return err
		}
		doc.ID = id.String()
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved resume %s\n", id)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	return writeOutput(cmd, parseOutputFile, out)
}

// writeOutput writes to path, or to stdout when path is empty
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
