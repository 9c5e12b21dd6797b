package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcgtools/deckimport/internal/config"
	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/formats"
)

func newParseCmd() *cobra.Command {
	var (
		formatFlag string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a deck list from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args)
			if err != nil {
				return err
			}

			override, err := formatOverride(formatFlag)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			parser, closer, err := openParser(cfg)
			if err != nil {
				return err
			}
			defer closer()

			result, err := parser.Parse(context.Background(), raw, override)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printResult(cmd.OutOrStdout(), result)
			if !result.Validation.IsValid {
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "format override (standard, expanded, glc, constructed)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the full result as JSON")
	return cmd
}

// readInput reads the deck list from the file argument or stdin.
func readInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read deck list: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// formatOverride validates the --format flag.
func formatOverride(flag string) (*formats.Format, error) {
	if flag == "" {
		return nil, nil
	}
	f := formats.Format(flag)
	if !f.Valid() {
		return nil, fmt.Errorf("unknown format %q", flag)
	}
	return &f, nil
}

// printResult renders a human-readable summary.
func printResult(w io.Writer, result *deck.ParseResult) {
	fmt.Fprintf(w, "Game:    %s (%d%% confidence)\n", result.Game, result.GameConfidence)
	for _, reason := range result.GameReasons {
		fmt.Fprintf(w, "         - %s\n", reason)
	}
	fmt.Fprintf(w, "Dialect: %s\n", result.InputDialect)
	fmt.Fprintf(w, "Format:  %s (%d%%) %s\n", result.Format, result.FormatConfidence, result.FormatReason)
	fmt.Fprintf(w, "Cards:   %d total, %d distinct names\n", result.Stats.TotalCards, result.Stats.UniqueNames)

	if len(result.LineErrors) > 0 {
		fmt.Fprintln(w, "\nLine errors:")
		for _, e := range result.LineErrors {
			fmt.Fprintf(w, "  line %d: %s: %q\n", e.Line.Number, e.Reason, e.Line.Text)
		}
	}

	for _, g := range result.ReprintGroups {
		if g.Status != deck.StatusExceeded {
			continue
		}
		fmt.Fprintf(w, "\nOver limit: %s (%d/%d)\n", g.Name, g.TotalQuantity, g.Limit)
	}

	if result.Validation.IsValid {
		fmt.Fprintln(w, "\nDeck is legal.")
		return
	}

	fmt.Fprintln(w, "\nValidation errors:")
	for _, issue := range result.Validation.Errors {
		fmt.Fprintf(w, "  [%s] %s\n", issue.Type, issue.Message)
	}
	for _, issue := range result.Validation.Warnings {
		fmt.Fprintf(w, "  warning [%s] %s\n", issue.Type, issue.Message)
	}
}
