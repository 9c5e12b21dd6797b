package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/formats"
)

const cardColumns = `id, game, name, name_key, set_code, collector_number,
	supertype, subtypes, types, regulation_mark, image_url,
	basic_energy, basic_pokemon, ace_spec, radiant, rule_box, updated_at`

// SaveCard inserts or replaces a card printing.
func (s *Store) SaveCard(ctx context.Context, card *cardindex.Card) error {
	subtypes, err := json.Marshal(card.Subtypes)
	if err != nil {
		return fmt.Errorf("marshal subtypes: %w", err)
	}
	types, err := json.Marshal(card.Types)
	if err != nil {
		return fmt.Errorf("marshal types: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO cards (
			id, game, name, name_key, set_code, collector_number,
			supertype, subtypes, types, regulation_mark, image_url,
			basic_energy, basic_pokemon, ace_spec, radiant, rule_box, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, string(card.Game), card.Name, cardindex.NormalizeName(card.Name),
		card.SetCode, card.CollectorNumber,
		string(card.Supertype), string(subtypes), string(types),
		card.RegulationMark, card.ImageURL,
		card.BasicEnergy, card.BasicPokemon, card.AceSpec, card.Radiant, card.RuleBox,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save card %q: %w", card.Name, err)
	}
	return nil
}

// GetPrintings returns every stored printing of a normalized name.
func (s *Store) GetPrintings(ctx context.Context, name string) ([]*cardindex.Card, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE name_key = ? ORDER BY set_code, collector_number`,
		cardindex.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("query printings for %q: %w", name, err)
	}
	defer rows.Close()

	var cards []*cardindex.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// FindCard returns the best stored match for a name and optional printing
// hints: an exact set/number match wins, then a set match, then any
// printing. A miss returns (nil, nil).
func (s *Store) FindCard(ctx context.Context, req cardindex.Request) (*cardindex.Card, error) {
	printings, err := s.GetPrintings(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if len(printings) == 0 {
		return nil, nil
	}

	var setMatch *cardindex.Card
	for _, card := range printings {
		if req.SetCode != "" && card.SetCode == req.SetCode {
			if req.CollectorNumber != "" && card.CollectorNumber == req.CollectorNumber {
				return card, nil
			}
			if setMatch == nil {
				setMatch = card
			}
		}
	}
	if setMatch != nil {
		return setMatch, nil
	}
	return printings[0], nil
}

// ResolveMany resolves a batch of requests from the local index. Misses
// map to empty results; only a database failure returns an error.
func (s *Store) ResolveMany(ctx context.Context, reqs []cardindex.Request) (map[string]cardindex.Result, error) {
	results := make(map[string]cardindex.Result, len(reqs))
	for _, req := range reqs {
		card, err := s.FindCard(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cardindex.ErrResolverUnavailable, err)
		}
		results[req.Name] = cardindex.Result{Card: card}
	}
	return results, nil
}

// Count returns the number of stored printings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*cardindex.Card, error) {
	var (
		card            cardindex.Card
		game, supertype string
		subtypes, types string
		nameKey         string
		updatedAt       time.Time
	)
	err := row.Scan(
		&card.ID, &game, &card.Name, &nameKey, &card.SetCode, &card.CollectorNumber,
		&supertype, &subtypes, &types, &card.RegulationMark, &card.ImageURL,
		&card.BasicEnergy, &card.BasicPokemon, &card.AceSpec, &card.Radiant, &card.RuleBox,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}

	card.Game = formats.Game(game)
	card.Supertype = cardindex.Supertype(supertype)
	if err := json.Unmarshal([]byte(subtypes), &card.Subtypes); err != nil {
		return nil, fmt.Errorf("unmarshal subtypes: %w", err)
	}
	if err := json.Unmarshal([]byte(types), &card.Types); err != nil {
		return nil, fmt.Errorf("unmarshal types: %w", err)
	}
	return &card, nil
}
