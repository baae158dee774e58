package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/cache"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/jobfunction"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
)

var (
	categoriesAPIURL string
	categoriesSearch string
	categoriesFile   string
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Browse and import job function categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print job function roles, optionally filtered",
	RunE:  runCategoriesList,
}

var categoriesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Insert or replace categories from a JSON file",
	Long:  `Read {"categories":[...]} from --file and upsert each category with its subcategories.`,
	RunE:  runCategoriesImport,
}

func init() {
	categoriesListCmd.Flags().StringVar(&categoriesAPIURL, "api-url", "", "Base URL of the API (default: ai_base_url)")
	categoriesListCmd.Flags().StringVarP(&categoriesSearch, "search", "s", "", "Only show roles matching this term")

	categoriesImportCmd.Flags().StringVarP(&categoriesFile, "file", "f", "", "Path to the categories JSON (required)")
	_ = categoriesImportCmd.MarkFlagRequired("file")

	categoriesCmd.AddCommand(categoriesListCmd, categoriesImportCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runCategoriesList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	apiURL := categoriesAPIURL
	if apiURL == "" {
		apiURL = cfg.AIBaseURL
	}

	client := jobfunction.NewClient(apiURL, nil, logging.Component(logger, "jobfunction"))
	cats := jobfunction.Filter(client.Fetch(cmd.Context()), categoriesSearch)

	observability.NewPrinter(cmd.OutOrStdout()).PrintJobFunctions(cats)
	return nil
}

func runCategoriesImport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDatabase(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(categoriesFile)
	if err != nil {
		return fmt.Errorf("failed to read categories file: %w", err)
	}
	var body types.CategoriesResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("failed to parse categories JSON: %w", err)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	touched := map[string]bool{}
	for _, cat := range body.Categories {
		if cat.Type == "" {
			cat.Type = types.CategoryTypeJobFunction
		}
		if _, err := database.UpsertCategory(ctx, cat); err != nil {
			return err
		}
		touched[cat.Type] = true
	}

	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(ctx, cache.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		c := cache.NewCategories(rdb, database.ListCategories, cfg.Cache.CategoryTTL, nil)
		for categoryType := range touched {
			if err := c.Invalidate(ctx, categoryType); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories\n", len(body.Categories))
	return nil
}
