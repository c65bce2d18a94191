package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/ai"
	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/payment"
	"github.com/jonathan/cv-builder/internal/pdfio"
	"github.com/jonathan/cv-builder/internal/server"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for the CV wizard, resume imports, AI content operations, checkout, and PDF export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	fileCfg := config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		fileCfg = *loaded
	}

	cfg := config.FromEnv().MergeWithDefaults(fileCfg)
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY environment variable is required")
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		st = pg
	} else {
		log.Println("DATABASE_URL not set, sessions are kept in memory")
		st = store.NewMemoryStore()
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer llmClient.Close()

	rlCfg := ratelimit.LoadConfig()
	if rlCfg.Enabled && cfg.RateLimitPerMinute > 0 {
		rlCfg.DefaultLimit = cfg.RateLimitPerMinute
	}

	deps := server.Deps{
		Store:       st,
		AI:          ai.NewService(llmClient),
		Checkout:    payment.NewCheckout(st, payment.NewStripeGateway(cfg.StripeSecretKey)),
		Renderer:    pdfio.NewChromeRenderer(cfg.ChromePath),
		RateLimiter: ratelimit.NewLimiter(rlCfg),
	}

	// A JWT secret in the environment switches the API to authenticated mode.
	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("invalid JWT configuration: %w", err)
		}
		deps.JWTService = server.NewJWTService(jwtCfg)
	}

	srv := server.New(server.Config{
		Port:            cfg.Port,
		AllowedOrigin:   cfg.AllowedOrigin,
		ProcessingDelay: cfg.ProcessingDelay(),
	}, deps)

	return srv.Start()
}
