package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/editor"
	"github.com/jonathan/resume-studio/internal/generator"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/intake"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
)

var (
	genJobFile    string
	genJobURL     string
	genResumeFile string
	genResumeID   string
	genUploadFile string
	genSkills     []string
	genAIURL      string
	genOutputFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Tailor a resume to a job description",
	Long: `Analyze a job description against a resume, select the skills to emphasize and
merge the generated content into the resume. The analysis and generation calls go to
the AI service at --ai-url (or ai_base_url in the config).`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genJobFile, "job", "", "Path to a job description text file")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL of a job posting to fetch")
	generateCmd.Flags().StringVar(&genResumeFile, "resume", "", "Path to a resume document JSON file")
	generateCmd.Flags().StringVar(&genResumeID, "resume-id", "", "ID of a stored resume; the result is saved back")
	generateCmd.Flags().StringVar(&genUploadFile, "upload", "", "PDF resume to parse and use as the base")
	generateCmd.Flags().StringSliceVar(&genSkills, "skills", nil, "Skills to emphasize (default: the suggested selection)")
	generateCmd.Flags().StringVar(&genAIURL, "ai-url", "", "Base URL of the AI service")
	generateCmd.Flags().StringVarP(&genOutputFile, "out", "o", "", "Write JSON here instead of stdout")
	generateCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	generateCmd.MarkFlagsOneRequired("job", "job-url")
	generateCmd.MarkFlagsMutuallyExclusive("resume", "resume-id")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	jobDescription, err := loadJobDescription(ctx, genJobFile, genJobURL)
	if err != nil {
		return err
	}

	session, cleanup, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	aiURL := genAIURL
	if aiURL == "" {
		aiURL = cfg.AIBaseURL
	}
	ai := aiclient.New(aiURL, aiclient.WithLogger(logging.Component(logger, "aiclient")))

	opts := []generator.Option{generator.WithLogger(logging.Component(logger, "generator"))}
	if genUploadFile != "" {
		if err := requireAPIKey(cfg); err != nil {
			return err
		}
		client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		opts = append(opts, generator.WithUploader(intake.NewService(intake.NewPDFParser(client))))
	}

	ctrl := generator.NewController(ai, session, opts...)
	stderr := cmd.ErrOrStderr()
	printer := observability.NewPrinter(stderr)

	if genUploadFile != "" {
		data, err := os.ReadFile(genUploadFile)
		if err != nil {
			return fmt.Errorf("failed to read upload: %w", err)
		}
		if err := ctrl.UploadResume(ctx, intake.File{Name: filepath.Base(genUploadFile), Data: data}); err != nil {
			return pipelineError(ctrl, err)
		}
	}

	if err := ctrl.SetJobDescription(jobDescription); err != nil {
		return err
	}
	if err := ctrl.Analyze(ctx); err != nil {
		return pipelineError(ctrl, err)
	}
	snap := ctrl.Snapshot()
	printer.PrintAnalysis(snap.Analysis, snap.SkillMatches, snap.SelectedSkills)

	if cmd.Flags().Changed("skills") {
		for _, name := range skillToggles(ctrl.Snapshot().SelectedSkills, genSkills) {
			if _, err := ctrl.ToggleSkill(name); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(stderr, "Generating with: %s\n", strings.Join(ctrl.Snapshot().SelectedSkills, ", "))

	if err := ctrl.Generate(ctx); err != nil {
		return pipelineError(ctrl, err)
	}

	resume := session.Resume()
	printer.PrintResume(&resume)

	out, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	return writeOutput(cmd, genOutputFile, out)
}

func loadJobDescription(ctx context.Context, path, url string) (string, error) {
	posting, err := ingestion.Load(ctx, path, url, nil)
	if err != nil {
		return "", err
	}
	return posting.Text, nil
}

// openSession loads the base resume from a file, the database or nothing
func openSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*editor.Session, func(), error) {
	noop := func() {}
	sessionLogger := logging.Component(logger, "editor")

	switch {
	case genResumeID != "":
		if err := requireDatabase(cfg); err != nil {
			return nil, noop, err
		}
		id, err := uuid.Parse(genResumeID)
		if err != nil {
			return nil, noop, fmt.Errorf("invalid --resume-id: %w", err)
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		session, err := editor.Open(ctx, database, id, sessionLogger)
		if err != nil {
			database.Close()
			return nil, noop, err
		}
		return session, database.Close, nil

	case genResumeFile != "":
		data, err := os.ReadFile(genResumeFile)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to read resume: %w", err)
		}
		var doc types.ResumeDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, noop, fmt.Errorf("failed to parse resume JSON: %w", err)
		}
		return editor.NewSession(doc, nil, sessionLogger), noop, nil

	default:
		return editor.NewSession(types.ResumeDocument{}, nil, sessionLogger), noop, nil
	}
}

// skillToggles lists the names to toggle so that current becomes wanted.
// Entries of wanted are trimmed and blanks dropped before comparing.
func skillToggles(current, wanted []string) []string {
	var names []string
	for _, name := range wanted {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	var toggles []string
	for _, name := range current {
		if !slices.Contains(names, name) {
			toggles = append(toggles, name)
		}
	}
	for _, name := range names {
		if !slices.Contains(current, name) {
			toggles = append(toggles, name)
		}
	}
	return toggles
}

// pipelineError prefers the message the pipeline shows to users
func pipelineError(ctrl *generator.Controller, err error) error {
	if msg := ctrl.Snapshot().ErrorMessage; msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
