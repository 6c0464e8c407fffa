package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/agent"
	"github.com/jonathan/marketing-intel/internal/db"
	"github.com/jonathan/marketing-intel/internal/monitor"
	"github.com/jonathan/marketing-intel/internal/notify"
	"github.com/jonathan/marketing-intel/internal/scraper"
)

var (
	monitorConfigPath  string
	monitorWithScraper []string
	monitorVerbose     bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run one monitoring pass over the watchlist",
	Long: "Analyze every watched competitor and deliver one aggregated daily report. " +
		"Intended to run headless from cron or a scheduler; a failing target is reported " +
		"in the aggregate and never aborts the run.",
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorConfigPath, "config", "c", "", "Path to JSON config file")
	monitorCmd.Flags().StringSliceVar(&monitorWithScraper, "with-scraper", nil,
		"Command to launch the scraper server before the run (e.g. --with-scraper python,scrape_server.py)")
	monitorCmd.Flags().BoolVarP(&monitorVerbose, "verbose", "v", false, "Log per-target progress")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(monitorConfigPath)
	if err != nil {
		return err
	}
	if monitorVerbose {
		cfg.Verbose = true
	}
	if err := cfg.ValidateMonitor(); err != nil {
		return err
	}

	ctx := context.Background()

	// Optionally launch and supervise the scraper server for the duration
	// of the run.
	if len(monitorWithScraper) > 0 {
		if cfg.ScraperURL == "" {
			return fmt.Errorf("--with-scraper requires SCRAPER_URL to be set")
		}
		sup := scraper.NewSupervisor(monitorWithScraper, scraper.NewClient(cfg.ScraperURL), cfg.Verbose)
		if err := sup.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scraper server: %w", err)
		}
		defer sup.Stop()
	}

	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	opts := []monitor.Option{monitor.WithVerbose(cfg.Verbose)}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, monitor.WithStore(database))
	}
	if len(cfg.Targets) > 0 {
		opts = append(opts, monitor.WithTargets(cfg.Targets))
	}

	var channels notify.Multi
	if cfg.MailConfigured() {
		var subscribers notify.SubscriberLister
		if database != nil {
			subscribers = database
		}
		channels = append(channels, notify.NewMailer(cfg, subscribers))
	}
	if cfg.SlackConfigured() {
		channels = append(channels, notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannelID))
	}

	// Structured analysis fills the value-proposition field that change
	// detection compares between runs.
	m := monitor.New(agent.New(buildExtractor(cfg), client).Structured(), channels, opts...)
	daily, err := m.Run(ctx)
	if err != nil {
		return err
	}

	log.Printf("Monitoring run finished: %d/%d targets analyzed", len(daily.Succeeded()), len(daily.Results))
	return nil
}
