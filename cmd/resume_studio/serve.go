package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/cache"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/intake"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/server"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

var (
	serveAddr    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing the AI analysis and generation streams, category lookup and resume storage.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create database tables before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	deps := server.Deps{
		LLM: client,
		Uploader: intake.NewService(intake.NewPDFParser(client),
			intake.WithLogger(logging.Component(logger, "intake"))),
		Health: map[string]server.Pinger{},
		Logger: logger,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if serveMigrate {
			if err := database.Migrate(ctx); err != nil {
				return err
			}
		}
		deps.Resumes = database
		deps.Categories = server.CategorySourceFunc(database.ListCategories)
		deps.Health["database"] = database

		if cfg.RedisURL != "" {
			rdb, err := cache.NewRedis(ctx, cache.RedisConfig{URL: cfg.RedisURL})
			if err != nil {
				return err
			}
			defer func() { _ = rdb.Close() }()
			deps.Categories = cache.NewCategories(rdb, database.ListCategories, cfg.Cache.CategoryTTL,
				logging.Component(logger, "cache"))
			deps.Health["redis"] = cache.Pinger{Client: rdb}
		}
	} else {
		logger.Warn("DATABASE_URL not set; category and resume endpoints are disabled")
	}

	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		RateLimit: ratelimit.FromSettings(cfg.RateLimit.Enabled, cfg.RateLimit.DefaultLimit,
			cfg.RateLimit.DefaultWindow, cfg.RateLimit.Whitelist, cfg.RateLimit.Blacklist),
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("serving", zap.String("addr", cfg.Server.Addr), zap.Bool("database", deps.Resumes != nil))
	return srv.Run(ctx)
}
