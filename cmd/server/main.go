// Package main is the entry point for the NPC dialogue service
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dialogue/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rpg-dialogue",
	Short: "NPC dialogue service",
	Long: `rpg-dialogue drives conversations with non-player characters: it builds prompts from
world state, routes generation across local and hosted language model backends, and turns
replies into dice checks and game actions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogging(cfg)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(probeCmd)
}
