// Command deckimport is the deck list import CLI: parse pasted deck lists,
// watch a file for edits, and manage the local card index.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcgtools/deckimport/internal/cardindex/lookup"
	"github.com/tcgtools/deckimport/internal/cardindex/remote"
	"github.com/tcgtools/deckimport/internal/cardindex/store"
	"github.com/tcgtools/deckimport/internal/config"
	"github.com/tcgtools/deckimport/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "deckimport",
	Short: "Parse and validate trading card game deck lists",
	Long: `deckimport detects the dialect and game of a pasted deck list,
resolves cards against a local index, groups reprints and validates the
deck against its competitive format.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newCardsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openParser wires the configured card index into a pipeline parser.
// The returned closer must be called when the parser is no longer needed.
func openParser(cfg *config.Config) (*pipeline.Parser, func(), error) {
	dbPath, err := cfg.CardDBPath()
	if err != nil {
		return nil, nil, err
	}

	storeConfig := store.DefaultConfig(dbPath)
	storeConfig.AutoMigrate = true
	st, err := store.Open(storeConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("open card index: %w", err)
	}

	var client *remote.Client
	if !cfg.Cards.Offline {
		var options []remote.Option
		if cfg.Cards.APIBaseURL != "" {
			options = append(options, remote.WithBaseURL(cfg.Cards.APIBaseURL))
		}
		if cfg.Cards.APIKey != "" {
			options = append(options, remote.WithAPIKey(cfg.Cards.APIKey))
		}
		client = remote.NewClient(options...)
	}

	parser := pipeline.New(lookup.NewService(st, client))
	closer := func() { _ = st.Close() }
	return parser, closer, nil
}
