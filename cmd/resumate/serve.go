package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/melodyxpot/resumate-app/internal/db"
	"github.com/melodyxpot/resumate-app/internal/server"
)

var serveSkipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the profile, extraction, tailoring and saved resume endpoints.

Pending database migrations are applied first unless --skip-migrate is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	serveCmd.Flags().String("api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	serveCmd.Flags().String("chrome-path", "", "Chrome executable used for PDF export (defaults to CHROME_PATH or PATH lookup)")
	serveCmd.Flags().BoolVar(&serveSkipMigrate, "skip-migrate", false, "Do not apply database migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	ctx := context.Background()
	if !serveSkipMigrate {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		log.Printf("[server] migrations applied")
	}

	srv, err := server.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
