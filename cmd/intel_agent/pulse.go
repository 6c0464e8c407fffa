package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/scraper"
)

var pulseConfigPath string

var pulseCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Check whether the scraper server is alive",
	Long:  "Probe the scraper server at SCRAPER_URL. Any HTTP response counts as alive; only a connection failure means the server is down.",
	RunE:  runPulse,
}

func init() {
	pulseCmd.Flags().StringVarP(&pulseConfigPath, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(pulseCmd)
}

func runPulse(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(pulseConfigPath)
	if err != nil {
		return err
	}
	if cfg.ScraperURL == "" {
		return fmt.Errorf("SCRAPER_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scraper.NewClient(cfg.ScraperURL).Health(ctx); err != nil {
		return fmt.Errorf("scraper server at %s is down: %w", cfg.ScraperURL, err)
	}
	fmt.Printf("Scraper server at %s is alive\n", cfg.ScraperURL)
	return nil
}
