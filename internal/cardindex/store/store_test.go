package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/formats"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	config := DefaultConfig(":memory:")
	config.AutoMigrate = true

	s, err := Open(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCard(t *testing.T, s *Store, card *cardindex.Card) {
	t.Helper()
	require.NoError(t, s.SaveCard(context.Background(), card))
}

func TestOpenRejectsNilConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
}

func TestSaveAndGetPrintings(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	seedCard(t, s, &cardindex.Card{
		ID: "SVI-191", Game: formats.GamePokemon, Name: "Rare Candy",
		SetCode: "SVI", CollectorNumber: "191",
		Supertype: cardindex.SupertypeTrainer, Subtypes: []string{"Item"},
		RegulationMark: "G",
	})
	seedCard(t, s, &cardindex.Card{
		ID: "PGO-69", Game: formats.GamePokemon, Name: "Rare Candy",
		SetCode: "PGO", CollectorNumber: "69",
		Supertype: cardindex.SupertypeTrainer, Subtypes: []string{"Item"},
	})

	printings, err := s.GetPrintings(ctx, "Rare Candy")
	require.NoError(t, err)
	require.Len(t, printings, 2)
	assert.Equal(t, "PGO", printings[0].SetCode, "printings are ordered by set code")
	assert.Equal(t, []string{"Item"}, printings[0].Subtypes)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSaveCardReplacesByID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	seedCard(t, s, &cardindex.Card{
		ID: "OBF-125", Game: formats.GamePokemon, Name: "Charizard ex",
		SetCode: "OBF", CollectorNumber: "125", Supertype: cardindex.SupertypePokemon,
	})
	seedCard(t, s, &cardindex.Card{
		ID: "OBF-125", Game: formats.GamePokemon, Name: "Charizard ex",
		SetCode: "OBF", CollectorNumber: "125", Supertype: cardindex.SupertypePokemon,
		RegulationMark: "G",
	})

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	card, err := s.FindCard(ctx, cardindex.Request{Name: "Charizard ex"})
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, "G", card.RegulationMark)
}

func TestGetPrintingsMatchesNormalizedNames(t *testing.T) {
	s := testStore(t)

	seedCard(t, s, &cardindex.Card{
		ID: "SVI-185", Game: formats.GamePokemon, Name: "Poké Ball",
		SetCode: "SVI", CollectorNumber: "185", Supertype: cardindex.SupertypeTrainer,
	})

	for _, query := range []string{"Poké Ball", "poke ball", "POKE  BALL"} {
		printings, err := s.GetPrintings(context.Background(), query)
		require.NoError(t, err)
		assert.Len(t, printings, 1, "query %q", query)
	}
}

func TestFindCardPrecedence(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, c := range []*cardindex.Card{
		{ID: "SVI-196", Name: "Ultra Ball", SetCode: "SVI", CollectorNumber: "196", Game: formats.GamePokemon, Supertype: cardindex.SupertypeTrainer},
		{ID: "SVI-250", Name: "Ultra Ball", SetCode: "SVI", CollectorNumber: "250", Game: formats.GamePokemon, Supertype: cardindex.SupertypeTrainer},
		{ID: "PAL-91", Name: "Ultra Ball", SetCode: "PAL", CollectorNumber: "91", Game: formats.GamePokemon, Supertype: cardindex.SupertypeTrainer},
	} {
		seedCard(t, s, c)
	}

	tests := []struct {
		name   string
		req    cardindex.Request
		wantID string
	}{
		{
			name:   "exact set and number",
			req:    cardindex.Request{Name: "Ultra Ball", SetCode: "SVI", CollectorNumber: "250"},
			wantID: "SVI-250",
		},
		{
			name:   "set match without number",
			req:    cardindex.Request{Name: "Ultra Ball", SetCode: "PAL"},
			wantID: "PAL-91",
		},
		{
			name:   "unknown set falls back to a stored printing",
			req:    cardindex.Request{Name: "Ultra Ball", SetCode: "XYZ"},
			wantID: "PAL-91", // first in set-code order
		},
		{
			name:   "no hints",
			req:    cardindex.Request{Name: "Ultra Ball"},
			wantID: "PAL-91",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := s.FindCard(ctx, tt.req)
			require.NoError(t, err)
			require.NotNil(t, card)
			assert.Equal(t, tt.wantID, card.ID)
		})
	}
}

func TestFindCardMiss(t *testing.T) {
	s := testStore(t)

	card, err := s.FindCard(context.Background(), cardindex.Request{Name: "No Such Card"})
	require.NoError(t, err, "a miss is not an error")
	assert.Nil(t, card)
}

func TestResolveMany(t *testing.T) {
	s := testStore(t)

	seedCard(t, s, &cardindex.Card{
		ID: "OBF-125", Game: formats.GamePokemon, Name: "Charizard ex",
		SetCode: "OBF", CollectorNumber: "125", Supertype: cardindex.SupertypePokemon,
	})

	results, err := s.ResolveMany(context.Background(), []cardindex.Request{
		{Name: "Charizard ex"},
		{Name: "No Such Card"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results["Charizard ex"].Found())
	assert.False(t, results["No Such Card"].Found())
}

func TestImportBulk(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	bulk := `[
		{"name": "Charmander", "game": "pokemon", "setCode": "PAF", "collectorNumber": "7",
		 "supertype": "Pokémon", "subtypes": ["Basic"], "regulationMark": "G"},
		{"name": "Prime Catcher", "game": "pokemon", "setCode": "TEF", "collectorNumber": "157",
		 "supertype": "Trainer", "subtypes": ["Item", "ACE SPEC"]},
		{"name": "", "supertype": "Trainer"},
		{"name": "No Category"}
	]`

	var progress []int
	stats, err := s.ImportBulk(ctx, strings.NewReader(bulk), ImportOptions{
		BatchSize: 1,
		Progress:  func(n int) { progress = append(progress, n) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, []int{1, 2}, progress)

	// Flags are rederived from subtypes, and a missing ID is synthesized.
	card, err := s.FindCard(ctx, cardindex.Request{Name: "Charmander"})
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, "PAF-7", card.ID)
	assert.True(t, card.BasicPokemon)

	catcher, err := s.FindCard(ctx, cardindex.Request{Name: "Prime Catcher"})
	require.NoError(t, err)
	require.NotNil(t, catcher)
	assert.True(t, catcher.AceSpec)
	assert.True(t, catcher.RuleBox)
}

func TestImportBulkRejectsNonArray(t *testing.T) {
	s := testStore(t)

	_, err := s.ImportBulk(context.Background(), strings.NewReader(`{"name": "x"}`), ImportOptions{})
	require.Error(t, err)
}
