package main

import (
	"context"

	"github.com/jonathan/marketing-intel/internal/config"
	"github.com/jonathan/marketing-intel/internal/llm"
	"github.com/jonathan/marketing-intel/internal/scraper"
)

// loadConfig builds the effective configuration: environment first, JSON
// file overlay for whatever the environment left unset.
func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(file)
	}
	return cfg, nil
}

// buildExtractor picks the content source: the dedicated scraper server when
// SCRAPER_URL is set, direct fetching otherwise.
func buildExtractor(cfg *config.Config) scraper.Extractor {
	if cfg.ScraperURL != "" {
		return scraper.NewClient(cfg.ScraperURL)
	}
	return scraper.NewLocal(cfg.UseBrowser, cfg.Verbose)
}

func buildLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
}
