package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "grabble",
		Short: "CLI tool for the Grabble game API",
		Long: `grabble is a CLI tool for interacting with the Grabble JSON API.

It covers players, rooms, bots, every game action and real-time
event streaming for a room.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: GRABBLE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: GRABBLE_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: GRABBLE_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
