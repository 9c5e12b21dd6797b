package remote

import (
	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/formats"
)

// cardPage is one page of API search results.
type cardPage struct {
	Data       []*apiCard `json:"data"`
	TotalCount int        `json:"totalCount"`
}

// apiCard is the wire shape of one card printing.
type apiCard struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Supertype      string   `json:"supertype"`
	Subtypes       []string `json:"subtypes"`
	Types          []string `json:"types"`
	Number         string   `json:"number"`
	RegulationMark string   `json:"regulationMark"`
	Set            apiSet   `json:"set"`
	Images         struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
}

type apiSet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PtcgoCode string `json:"ptcgoCode"`
}

// ToCard converts an API printing to the card index model. The set code
// is the set's trading code when published, falling back to the set ID.
func (a *apiCard) ToCard() *cardindex.Card {
	setCode := a.Set.PtcgoCode
	if setCode == "" {
		setCode = a.Set.ID
	}

	card := &cardindex.Card{
		ID:              a.ID,
		Game:            formats.GamePokemon,
		Name:            a.Name,
		SetCode:         setCode,
		CollectorNumber: a.Number,
		Supertype:       cardindex.Supertype(a.Supertype),
		Subtypes:        a.Subtypes,
		Types:           a.Types,
		RegulationMark:  a.RegulationMark,
		ImageURL:        a.Images.Large,
	}
	cardindex.DeriveFlags(card)
	return card
}
