package pipeline

import (
	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/deckparse"
)

// riftboundSections maps card categories to the export section they are
// listed under. Everything else belongs to the main deck.
var riftboundSections = map[cardindex.Supertype]string{
	cardindex.SupertypeLegend:      "Legend",
	cardindex.SupertypeBattlefield: "Battlefields",
	cardindex.SupertypeRune:        "Runes",
}

// Export re-serializes a parse result's cards into a dialect's textual
// form. Quantities and names round-trip losslessly; set information is
// kept only by dialects that encode it.
func Export(result *deck.ParseResult, dialect deckparse.Dialect) (string, error) {
	cards := make([]deckparse.ExportCard, 0, len(result.Cards))
	for _, c := range result.Cards {
		ec := deckparse.ExportCard{
			Quantity:        c.Quantity,
			Name:            c.Name(),
			SetCode:         c.SetCode,
			CollectorNumber: c.CollectorNumber,
		}
		if dialect == deckparse.DialectRiftbound {
			ec.Section = "Main Deck"
			if c.Card != nil {
				if section, ok := riftboundSections[c.Card.Supertype]; ok {
					ec.Section = section
				}
			}
		}
		cards = append(cards, ec)
	}
	return deckparse.Serialize(cards, dialect)
}
