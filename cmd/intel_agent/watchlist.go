package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/db"
)

var watchlistConfigPath string

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the competitor watchlist",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the watchlist",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDB(func(ctx context.Context, database *db.DB) error {
			targets, err := database.ListTargets(ctx)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Println("Watchlist is empty")
				return nil
			}
			for _, t := range targets {
				fmt.Println(t)
			}
			return nil
		})
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Add a domain to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, database *db.DB) error {
			domain, err := database.AddTarget(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added %s\n", domain)
			return nil
		})
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <domain>",
	Short: "Remove a domain from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, database *db.DB) error {
			if err := database.RemoveTarget(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", db.NormalizeDomain(args[0]))
			return nil
		})
	},
}

func init() {
	watchlistCmd.PersistentFlags().StringVarP(&watchlistConfigPath, "config", "c", "", "Path to JSON config file")
	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd)
	rootCmd.AddCommand(watchlistCmd)
}

// withDB runs fn against a connected database, handling setup and teardown.
func withDB(fn func(ctx context.Context, database *db.DB) error) error {
	cfg, err := loadConfig(watchlistConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for watchlist commands")
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
	return fn(ctx, database)
}
