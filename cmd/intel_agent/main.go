// Package main provides the entry point for the marketing intelligence agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intel_agent",
	Short: "Competitor marketing intelligence agent",
	Long:  "intel_agent watches competitor websites, summarizes their marketing positioning with Gemini, and delivers a daily strategy report over email and Slack.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
