package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tcgtools/deckimport/internal/cardindex"
)

// ImportOptions configures a bulk card import.
type ImportOptions struct {
	// BatchSize is the number of cards per transaction. Default: 500.
	BatchSize int

	// Progress is an optional callback receiving the running card count.
	Progress func(imported int)
}

// ImportStats reports the outcome of a bulk import.
type ImportStats struct {
	Imported int
	Skipped  int
}

// ImportBulk reads a JSON array of cards and inserts them in batches.
// Cards without a name or supertype are skipped, not fatal. Flags are
// rederived from subtypes so seed files cannot desynchronize them.
func (s *Store) ImportBulk(ctx context.Context, r io.Reader, options ImportOptions) (*ImportStats, error) {
	if options.BatchSize <= 0 {
		options.BatchSize = 500
	}

	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read bulk file: %w", err)
	}
	if tok != json.Delim('[') {
		return nil, fmt.Errorf("read bulk file: expected JSON array, got %v", tok)
	}

	stats := &ImportStats{}
	batch := make([]*cardindex.Card, 0, options.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.saveBatch(ctx, batch); err != nil {
			return err
		}
		stats.Imported += len(batch)
		batch = batch[:0]
		if options.Progress != nil {
			options.Progress(stats.Imported)
		}
		return nil
	}

	for dec.More() {
		var card cardindex.Card
		if err := dec.Decode(&card); err != nil {
			return nil, fmt.Errorf("decode card %d: %w", stats.Imported+stats.Skipped+1, err)
		}
		if card.Name == "" || card.Supertype == "" {
			stats.Skipped++
			continue
		}
		if card.ID == "" {
			card.ID = fmt.Sprintf("%s-%s", card.SetCode, card.CollectorNumber)
		}
		cardindex.DeriveFlags(&card)

		batch = append(batch, &card)
		if len(batch) >= options.BatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return stats, nil
}

// saveBatch inserts cards inside one transaction.
func (s *Store) saveBatch(ctx context.Context, cards []*cardindex.Card) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, card := range cards {
		subtypes, err := json.Marshal(card.Subtypes)
		if err != nil {
			return fmt.Errorf("marshal subtypes: %w", err)
		}
		types, err := json.Marshal(card.Types)
		if err != nil {
			return fmt.Errorf("marshal types: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO cards (
				id, game, name, name_key, set_code, collector_number,
				supertype, subtypes, types, regulation_mark, image_url,
				basic_energy, basic_pokemon, ace_spec, radiant, rule_box
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			card.ID, string(card.Game), card.Name, cardindex.NormalizeName(card.Name),
			card.SetCode, card.CollectorNumber,
			string(card.Supertype), string(subtypes), string(types),
			card.RegulationMark, card.ImageURL,
			card.BasicEnergy, card.BasicPokemon, card.AceSpec, card.Radiant, card.RuleBox,
		)
		if err != nil {
			return fmt.Errorf("insert card %q: %w", card.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import batch: %w", err)
	}
	return nil
}
