package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/config"
	redisclient "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/redis"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect and publish the compendium library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the partitions of the configured library",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = a.Close()
		}()

		out, err := a.library.ListPartitions(cmd.Context(), library.ListPartitionsInput{})
		if err != nil {
			return err
		}
		for _, p := range out.Partitions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d entries\n", p.Name, p.DocumentType, len(p.Entries))
		}
		return nil
	},
}

var librarySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy the library directory into Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := syncLibrary(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d partition(s) to %s\n", count, cfg.Store.RedisAddr)
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySyncCmd)
}

// syncLibrary saves every partition of the library directory to Redis
func syncLibrary(ctx context.Context, cfg *config.Config) (int, error) {
	dir, err := library.NewDirectory(&library.DirectoryConfig{Dir: cfg.Library.Dir})
	if err != nil {
		return 0, err
	}

	client, err := redisclient.NewClient(cfg.Store.RedisAddr, &redisclient.Options{
		DB:       cfg.Store.RedisDB,
		Password: cfg.Store.RedisPassword,
	})
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := redisclient.Ping(ctx, client); err != nil {
		return 0, err
	}

	store, err := library.NewRedis(&library.RedisConfig{Client: client})
	if err != nil {
		return 0, err
	}

	partitions := dir.Partitions()
	for _, p := range partitions {
		if _, err := store.SavePartition(ctx, library.SavePartitionInput{Partition: p}); err != nil {
			return 0, fmt.Errorf("failed to sync partition %s: %w", p.Name, err)
		}
	}
	return len(partitions), nil
}
