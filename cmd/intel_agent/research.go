package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/db"
	"github.com/jonathan/marketing-intel/internal/research"
)

var researchConfigPath string

var researchCmd = &cobra.Command{
	Use:   "research <company>",
	Short: "Search the web for recent company updates",
	Long:  "Query programmable search for recent announcements, hiring signals, and press about a company, then summarize the snippets into one update.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResearch,
}

func init() {
	researchCmd.Flags().StringVarP(&researchConfigPath, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(researchConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAnalyze(); err != nil {
		return err
	}
	if !cfg.SearchConfigured() {
		return fmt.Errorf("SEARCH_API_KEY and SEARCH_ENGINE_CX are required for research")
	}

	ctx := context.Background()

	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	r, err := research.NewResearcher(ctx, cfg.SearchAPIKey, cfg.SearchEngineCX, client)
	if err != nil {
		return fmt.Errorf("failed to create researcher: %w", err)
	}

	company := args[0]
	update, err := r.CompanyUpdates(ctx, company, db.NormalizeDomain(company))
	if err != nil {
		return err
	}

	fmt.Println(update.SummaryText)
	if update.SourceURL != "" {
		fmt.Printf("\nSources: %s\n", update.SourceURL)
	}
	return nil
}
