package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcgtools/deckimport/internal/cardindex/store"
	"github.com/tcgtools/deckimport/internal/config"
)

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the local card index",
	}
	cmd.AddCommand(newCardsImportCmd())
	return cmd
}

func newCardsImportCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import <bulk.json>",
		Short: "Seed the card index from a bulk JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dbPath, err := cfg.CardDBPath()
			if err != nil {
				return err
			}

			storeConfig := store.DefaultConfig(dbPath)
			storeConfig.AutoMigrate = true
			st, err := store.Open(storeConfig)
			if err != nil {
				return fmt.Errorf("open card index: %w", err)
			}
			defer func() { _ = st.Close() }()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open bulk file: %w", err)
			}
			defer func() { _ = f.Close() }()

			stats, err := st.ImportBulk(context.Background(), f, store.ImportOptions{
				BatchSize: batchSize,
				Progress: func(imported int) {
					fmt.Fprintf(cmd.OutOrStdout(), "\rimported %d cards...", imported)
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\rimported %d cards (%d skipped)\n", stats.Imported, stats.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "cards per transaction")
	return cmd
}
