// Package main is the entry point for the Lancer NPC importer
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/cmd/server/client"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lancer-npc-import",
	Short: "Lancer NPC importer",
	Long: `Imports Comp/Con NPC records into a local actor store, resolving classes,
templates and features against the compendium library.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		slog.SetDefault(cfg.Logging.NewLogger(os.Stderr))
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
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
