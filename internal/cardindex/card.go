// Package cardindex defines the card metadata model and the resolver
// interface the import pipeline consumes. Concrete resolvers live in the
// store, remote and lookup subpackages.
package cardindex

import (
	"context"
	"errors"

	"github.com/tcgtools/deckimport/internal/formats"
)

// Supertype is the top-level card category within a game.
type Supertype string

const (
	// Pokémon TCG categories.
	SupertypePokemon Supertype = "Pokémon"
	SupertypeTrainer Supertype = "Trainer"
	SupertypeEnergy  Supertype = "Energy"

	// Riftbound categories.
	SupertypeLegend      Supertype = "Legend"
	SupertypeBattlefield Supertype = "Battlefield"
	SupertypeRune        Supertype = "Rune"
	SupertypeUnit        Supertype = "Unit"
	SupertypeSpell       Supertype = "Spell"
	SupertypeGear        Supertype = "Gear"
)

// Card is the canonical card identity returned by a resolver.
type Card struct {
	ID              string          `json:"id"`
	Game            formats.Game    `json:"game"`
	Name            string          `json:"name"`
	SetCode         string          `json:"setCode,omitempty"`
	CollectorNumber string          `json:"collectorNumber,omitempty"`
	Supertype       Supertype       `json:"supertype"`
	Subtypes        []string        `json:"subtypes,omitempty"`
	Types           []string        `json:"types,omitempty"`
	RegulationMark  string          `json:"regulationMark,omitempty"`
	ImageURL        string          `json:"imageUrl,omitempty"`

	// Legality-relevant flags derived from the printing.
	BasicEnergy  bool `json:"isBasicEnergy"`
	BasicPokemon bool `json:"isBasicPokemon"`
	AceSpec      bool `json:"isAceSpec"`
	Radiant      bool `json:"isRadiant"`
	RuleBox      bool `json:"isRuleBox"`
}

// Request is a single name lookup with optional printing hints.
type Request struct {
	Name            string
	SetCode         string
	CollectorNumber string
}

// Result is the per-name outcome of a batch resolution.
// Card is nil when the name could not be resolved.
type Result struct {
	Card *Card
}

// Found reports whether the lookup produced a card.
func (r Result) Found() bool { return r.Card != nil }

// ErrResolverUnavailable signals an infrastructure failure of the resolver
// itself (network, timeout), as opposed to a per-name miss.
var ErrResolverUnavailable = errors.New("card resolver unavailable")

// Resolver resolves card names to canonical card identities.
// Implementations must tolerate per-name misses: a missing name maps to a
// Result with a nil Card, and only infrastructure failures return an error.
type Resolver interface {
	// ResolveMany resolves all requests in one batch. The returned map is
	// keyed by the request name exactly as given.
	ResolveMany(ctx context.Context, reqs []Request) (map[string]Result, error)
}
