package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/agent"
	"github.com/jonathan/marketing-intel/internal/llm"
)

var (
	analyzeConfigPath string
	analyzeStructured bool
	analyzeTier       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <target>",
	Short: "Analyze a single competitor site",
	Long:  "Scrape one competitor site, summarize its marketing positioning, and print the brief to stdout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "", "Path to JSON config file")
	analyzeCmd.Flags().BoolVar(&analyzeStructured, "json", false, "Produce a structured brief as JSON")
	analyzeCmd.Flags().StringVar(&analyzeTier, "tier", "", "Model tier: lite, standard, or advanced")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(analyzeConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAnalyze(); err != nil {
		return err
	}

	ctx := context.Background()

	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	a := agent.New(buildExtractor(cfg), client)
	if analyzeTier != "" {
		tier := llm.ModelTier(analyzeTier)
		switch tier {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
			a = a.WithTier(tier)
		default:
			return fmt.Errorf("unknown model tier: %s", analyzeTier)
		}
	}

	target := args[0]
	if analyzeStructured {
		brief, err := a.AnalyzeStructured(ctx, target)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(brief)
	}

	brief, err := a.Analyze(ctx, target)
	if err != nil {
		return err
	}
	fmt.Println(brief.Summary)
	return nil
}
