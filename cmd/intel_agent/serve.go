package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/agent"
	"github.com/jonathan/marketing-intel/internal/db"
	"github.com/jonathan/marketing-intel/internal/notify"
	"github.com/jonathan/marketing-intel/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal HTTP server",
	Long:  "Start the HTTP server that exposes the operator portal: watchlist management, on-demand analysis, and the subscriber signup flow.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var mailer server.VerificationMailer
	if cfg.MailConfigured() {
		mailer = notify.NewMailer(cfg, database)
	}

	srv, err := server.New(server.Config{
		Port:     cfg.Port,
		Password: cfg.AppPassword,
		Store:    database,
		Analyzer: agent.New(buildExtractor(cfg), client),
		Mailer:   mailer,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
