package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/marketing-intel/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Hash a portal password for APP_PASSWORD",
	Long:  "Produce a bcrypt hash of the given password. Set the output as APP_PASSWORD so the plaintext credential never lands in deployment config.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		hash, err := config.HashPassword(args[0])
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
