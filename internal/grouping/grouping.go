// Package grouping aggregates resolved cards into reprint groups keyed by
// canonical display name and classifies each group against its per-name
// copy limit.
package grouping

import (
	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/formats"
)

// GroupCards groups resolved cards by normalized display name, preserving
// first-seen group order and the order of printings within a group. The
// limit is recomputed from (game, singleton) on every call; callers must
// not reuse groups across a format change.
func GroupCards(cards []deck.ResolvedCard, game formats.Game, singleton bool) []deck.CardGroup {
	limit := formats.CopyLimit(game, singleton)

	var groups []deck.CardGroup
	index := make(map[string]int)

	for _, card := range cards {
		key := cardindex.NormalizeName(card.Name())
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, deck.CardGroup{
				Name: card.Name(),
				Key:  key,
			})
		}
		g := &groups[i]
		g.Cards = append(g.Cards, card)
		g.TotalQuantity += card.Quantity
		if card.BasicEnergy() {
			g.BasicEnergy = true
		}
	}

	for i := range groups {
		g := &groups[i]
		if !g.BasicEnergy {
			g.Limit = limit
		}
		g.Status = StatusOf(g.TotalQuantity, g.Limit, g.BasicEnergy)
	}

	return groups
}

// StatusOf computes a group's status as a pure function of its summed
// quantity, limit and basic-energy flag. Basic energy is always unlimited.
func StatusOf(total, limit int, basicEnergy bool) deck.GroupStatus {
	switch {
	case basicEnergy:
		return deck.StatusUnlimited
	case total > limit:
		return deck.StatusExceeded
	case total == limit:
		return deck.StatusAtLimit
	default:
		return deck.StatusUnder
	}
}
