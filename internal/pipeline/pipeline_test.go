package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/deckparse"
	"github.com/tcgtools/deckimport/internal/formats"
)

// fakeResolver resolves against an in-memory catalog keyed by name.
type fakeResolver struct {
	catalog map[string]*cardindex.Card
	err     error
}

func (f *fakeResolver) ResolveMany(ctx context.Context, reqs []cardindex.Request) (map[string]cardindex.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]cardindex.Result, len(reqs))
	for _, req := range reqs {
		out[req.Name] = cardindex.Result{Card: f.catalog[req.Name]}
	}
	return out, nil
}

func pokemonCard(name string, supertype cardindex.Supertype, mark string, mut func(*cardindex.Card)) *cardindex.Card {
	c := &cardindex.Card{
		Name:           name,
		Game:           formats.GamePokemon,
		Supertype:      supertype,
		RegulationMark: mark,
	}
	if mut != nil {
		mut(c)
	}
	return c
}

func riftboundCard(name string, supertype cardindex.Supertype) *cardindex.Card {
	c := &cardindex.Card{Name: name, Game: formats.GameRiftbound, Supertype: supertype}
	cardindex.DeriveFlags(c)
	return c
}

func testCatalog() map[string]*cardindex.Card {
	catalog := map[string]*cardindex.Card{
		"Charmander":            pokemonCard("Charmander", cardindex.SupertypePokemon, "G", func(c *cardindex.Card) { c.BasicPokemon = true }),
		"Charizard ex":          pokemonCard("Charizard ex", cardindex.SupertypePokemon, "G", func(c *cardindex.Card) { c.RuleBox = true }),
		"Pidgey":                pokemonCard("Pidgey", cardindex.SupertypePokemon, "G", func(c *cardindex.Card) { c.BasicPokemon = true }),
		"Pidgeot ex":            pokemonCard("Pidgeot ex", cardindex.SupertypePokemon, "G", func(c *cardindex.Card) { c.RuleBox = true }),
		"Rare Candy":            pokemonCard("Rare Candy", cardindex.SupertypeTrainer, "G", nil),
		"Professor's Research":  pokemonCard("Professor's Research", cardindex.SupertypeTrainer, "H", nil),
		"Ultra Ball":            pokemonCard("Ultra Ball", cardindex.SupertypeTrainer, "H", nil),
		"Iono":                  pokemonCard("Iono", cardindex.SupertypeTrainer, "H", nil),
		"Boss's Orders":         pokemonCard("Boss's Orders", cardindex.SupertypeTrainer, "G", nil),
		"Nest Ball":             pokemonCard("Nest Ball", cardindex.SupertypeTrainer, "G", nil),
		"Prime Catcher":         pokemonCard("Prime Catcher", cardindex.SupertypeTrainer, "H", func(c *cardindex.Card) { c.AceSpec = true }),
		"Mismagius":             pokemonCard("Mismagius", cardindex.SupertypePokemon, "", func(c *cardindex.Card) { c.BasicPokemon = false }),
		"Basic Fire Energy":     pokemonCard("Basic Fire Energy", cardindex.SupertypeEnergy, "", func(c *cardindex.Card) { c.BasicEnergy = true }),
		"Yasuo, Unforgiven":     riftboundCard("Yasuo, Unforgiven", cardindex.SupertypeLegend),
		"Windswept Plateau":     riftboundCard("Windswept Plateau", cardindex.SupertypeBattlefield),
		"Sword Rune":            riftboundCard("Sword Rune", cardindex.SupertypeRune),
	}
	for i := 1; i <= 14; i++ {
		name := fmt.Sprintf("Main Deck Card %d", i)
		catalog[name] = riftboundCard(name, cardindex.SupertypeUnit)
	}
	return catalog
}

func newTestParser() *Parser {
	return New(&fakeResolver{catalog: testCatalog()})
}

const standardLiveDeck = `Pokémon: 13
4 Charmander PAF 7
3 Charizard ex OBF 125
4 Pidgey OBF 162
2 Pidgeot ex OBF 164

Trainer: 25
4 Rare Candy SVI 191
4 Professor's Research SVI 189
4 Ultra Ball SVI 196
4 Iono PAL 185
4 Boss's Orders PAL 172
4 Nest Ball SVI 181
1 Prime Catcher TEF 157

Energy: 22
22 Basic Fire Energy SVE 230

Total Cards: 60`

func riftboundDeck() string {
	var sb strings.Builder
	sb.WriteString("Legend:\n1 Yasuo, Unforgiven\n\n")
	sb.WriteString("Battlefields:\n3 Windswept Plateau\n\n")
	sb.WriteString("Runes:\n12 Sword Rune\n\n")
	sb.WriteString("Main Deck:\n")
	for i := 1; i <= 13; i++ {
		fmt.Fprintf(&sb, "3 Main Deck Card %d\n", i)
	}
	sb.WriteString("1 Main Deck Card 14\n")
	return sb.String()
}

func TestParseStandardLiveDeck(t *testing.T) {
	result, err := newTestParser().Parse(context.Background(), standardLiveDeck, nil)
	require.NoError(t, err)

	assert.Equal(t, formats.GamePokemon, result.Game)
	assert.GreaterOrEqual(t, result.GameConfidence, 60)
	assert.NotEmpty(t, result.GameReasons)
	assert.Equal(t, deckparse.DialectLive, result.InputDialect)

	assert.Equal(t, formats.FormatStandard, result.Format)
	assert.Equal(t, 90, result.FormatConfidence)

	require.True(t, result.Validation.IsValid, "errors: %v", result.Validation.Errors)
	assert.Empty(t, result.LineErrors)
	assert.NotNil(t, result.LineErrors)
	assert.False(t, result.Degraded)

	assert.Equal(t, 60, result.Stats.TotalCards)
	assert.Equal(t, 12, result.Stats.UniqueNames)
	assert.Equal(t, 13, result.Breakdown[cardindex.SupertypePokemon])
	assert.Equal(t, 25, result.Breakdown[cardindex.SupertypeTrainer])
	assert.Equal(t, 22, result.Breakdown[cardindex.SupertypeEnergy])
}

func TestParsePocketDeck(t *testing.T) {
	input := "Charizard ex x2\nCharmander x2\nRare Candy x2"

	result, err := newTestParser().Parse(context.Background(), input, nil)
	require.NoError(t, err)

	assert.Equal(t, deckparse.DialectPocket, result.InputDialect)
	assert.Equal(t, formats.GamePokemon, result.Game)

	found := false
	for _, r := range result.GameReasons {
		if strings.Contains(r, "Pocket") {
			found = true
		}
	}
	assert.True(t, found, "reasons should name the Pocket export: %v", result.GameReasons)
}

func TestParseRiftboundDeck(t *testing.T) {
	result, err := newTestParser().Parse(context.Background(), riftboundDeck(), nil)
	require.NoError(t, err)

	assert.Equal(t, deckparse.DialectRiftbound, result.InputDialect)
	assert.Equal(t, formats.GameRiftbound, result.Game)
	assert.Equal(t, formats.FormatRiftbound, result.Format)
	assert.True(t, result.Validation.IsValid, "errors: %v", result.Validation.Errors)
	assert.Equal(t, 56, result.Stats.TotalCards)
}

func TestParseToleratesBadLines(t *testing.T) {
	input := strings.Replace(standardLiveDeck, "4 Pidgey OBF 162", "0 Pidgey OBF 162\nnot a card", 1)

	result, err := newTestParser().Parse(context.Background(), input, nil)
	require.NoError(t, err)

	require.Len(t, result.LineErrors, 2)
	assert.Equal(t, deckparse.ReasonNonPositiveQuantity, result.LineErrors[0].Reason)
	assert.Equal(t, deckparse.ReasonMissingQuantity, result.LineErrors[1].Reason)

	// The surviving 56 cards still classify, group and validate.
	assert.Equal(t, formats.GamePokemon, result.Game)
	assert.Equal(t, 56, result.Stats.TotalCards)
	assert.False(t, result.Validation.IsValid)
}

func TestParseFormatOverride(t *testing.T) {
	// Mismagius has no regulation mark, so detection would pick expanded.
	input := strings.Replace(standardLiveDeck, "4 Pidgey OBF 162", "4 Mismagius CRZ 66", 1)

	detected, err := newTestParser().Parse(context.Background(), input, nil)
	require.NoError(t, err)
	assert.Equal(t, formats.FormatExpanded, detected.Format)

	override := formats.FormatStandard
	forced, err := newTestParser().Parse(context.Background(), input, &override)
	require.NoError(t, err)

	assert.Equal(t, formats.FormatStandard, forced.Format)
	assert.Equal(t, 100, forced.FormatConfidence)
	assert.Equal(t, "Format was explicitly chosen by the caller.", forced.FormatReason)
}

func TestParseGLCOverride(t *testing.T) {
	input := `Pokémon: 2
1 Charmander PAF 7
1 Pidgey OBF 162
Trainer: 2
2 Rare Candy SVI 191
Energy: 10
10 Basic Fire Energy SVE 230`

	override := formats.FormatGLC
	result, err := newTestParser().Parse(context.Background(), input, &override)
	require.NoError(t, err)

	singleton, copyLimit := 0, 0
	for _, issue := range result.Validation.Errors {
		switch issue.Type {
		case deck.IssueSingletonLimit:
			singleton++
		case deck.IssueCopyLimit:
			copyLimit++
		}
	}
	assert.Equal(t, 1, singleton, "one offending group, one singleton report")
	assert.Zero(t, copyLimit, "the generic copy rule must not double-report")
}

func TestParseOverrideGameMismatch(t *testing.T) {
	override := formats.FormatGLC
	result, err := newTestParser().Parse(context.Background(), riftboundDeck(), &override)
	require.NoError(t, err)

	// The detected game stands; the mismatch is a validation error.
	assert.Equal(t, formats.GameRiftbound, result.Game)
	assert.Equal(t, formats.FormatGLC, result.Format)

	found := false
	for _, issue := range result.Validation.Errors {
		if issue.Type == deck.IssueFormatGameMismatch {
			found = true
		}
	}
	assert.True(t, found, "want a format_game_mismatch error, got %v", result.Validation.Errors)
}

func TestParseDegradedOnResolverFailure(t *testing.T) {
	parser := New(&fakeResolver{err: cardindex.ErrResolverUnavailable})

	result, err := parser.Parse(context.Background(), standardLiveDeck, nil)
	require.NoError(t, err, "an unavailable resolver degrades the run, not fails it")

	assert.True(t, result.Degraded)
	for _, c := range result.Cards {
		assert.True(t, c.Unresolved, "card %q should be unresolved", c.RawName)
	}

	// Syntax evidence still classifies the game.
	assert.Equal(t, formats.GamePokemon, result.Game)
	assert.Equal(t, 60, result.Breakdown["Unknown"])

	found := false
	for _, issue := range result.Validation.Warnings {
		if issue.Type == deck.IssueUnresolvedCards {
			found = true
		}
	}
	assert.True(t, found, "want an unresolved_cards warning, got %v", result.Validation.Warnings)
}

func TestParseNilResolverDegrades(t *testing.T) {
	result, err := New(nil).Parse(context.Background(), "4 Charmander", nil)
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	require.Len(t, result.Cards, 1)
	assert.True(t, result.Cards[0].Unresolved)
}

func TestParseEmptyInput(t *testing.T) {
	result, err := newTestParser().Parse(context.Background(), "", nil)
	require.NoError(t, err)

	assert.False(t, result.Degraded)
	assert.Empty(t, result.Cards)
	assert.NotNil(t, result.LineErrors)
	assert.False(t, result.Validation.IsValid, "an empty deck fails the card count rule")
}

func TestParseCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser().Parse(ctx, standardLiveDeck, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseIsIdempotent(t *testing.T) {
	parser := newTestParser()

	first, err := parser.Parse(context.Background(), standardLiveDeck, nil)
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), standardLiveDeck, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("results differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestExportRiftboundSections(t *testing.T) {
	result, err := newTestParser().Parse(context.Background(), riftboundDeck(), nil)
	require.NoError(t, err)

	out, err := Export(result, deckparse.DialectRiftbound)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Legend:\n1 Yasuo, Unforgiven\n"))
	assert.Contains(t, out, "Battlefields:\n3 Windswept Plateau\n")
	assert.Contains(t, out, "Runes:\n12 Sword Rune\n")
	assert.Contains(t, out, "Main Deck:\n3 Main Deck Card 1\n")
}

func TestExportPocketRoundTrip(t *testing.T) {
	input := "Charizard ex x2\nCharmander x2"

	result, err := newTestParser().Parse(context.Background(), input, nil)
	require.NoError(t, err)

	out, err := Export(result, deckparse.DialectPocket)
	require.NoError(t, err)
	assert.Equal(t, "Charizard ex x2\nCharmander x2\n", out)
}
