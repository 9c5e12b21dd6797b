// Package formats defines the supported games and competitive formats,
// along with per-format deck sizes and copy limits.
package formats

// Game identifies a trading card game.
type Game string

const (
	// GamePokemon is the Pokémon Trading Card Game.
	GamePokemon Game = "pokemon"
	// GameRiftbound is the Riftbound TCG with its slot-based deck shape.
	GameRiftbound Game = "riftbound"
)

// Format identifies a competitive format within a game.
type Format string

const (
	FormatStandard  Format = "standard"
	FormatExpanded  Format = "expanded"
	FormatGLC       Format = "glc" // Gym Leader Challenge, singleton
	FormatRiftbound Format = "constructed"
	FormatUnknown   Format = ""
)

// FormatsFor returns the formats that belong to a game.
func FormatsFor(game Game) []Format {
	switch game {
	case GamePokemon:
		return []Format{FormatStandard, FormatExpanded, FormatGLC}
	case GameRiftbound:
		return []Format{FormatRiftbound}
	default:
		return nil
	}
}

// Game returns the game a format belongs to.
func (f Format) Game() Game {
	switch f {
	case FormatStandard, FormatExpanded, FormatGLC:
		return GamePokemon
	case FormatRiftbound:
		return GameRiftbound
	default:
		return ""
	}
}

// Singleton reports whether the format caps non-energy cards at one copy.
func (f Format) Singleton() bool {
	return f == FormatGLC
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f.Game() != ""
}

// DeckSize returns the required total card count for a format.
func DeckSize(f Format) int {
	switch f {
	case FormatRiftbound:
		// 1 Legend + 3 Battlefields + 12 Runes + 40 main deck.
		return 56
	default:
		return 60
	}
}

// Riftbound structural slot requirements.
const (
	RiftboundLegends      = 1
	RiftboundBattlefields = 3
	RiftboundRunes        = 12
	RiftboundMainDeck     = 40
)

// CopyLimit returns the per-name copy limit for a non-basic-energy card.
// Basic energy cards are uncapped and never reach this function's result;
// callers treat them as unlimited.
func CopyLimit(game Game, singleton bool) int {
	if singleton {
		return 1
	}
	switch game {
	case GameRiftbound:
		return 3
	default:
		return 4
	}
}
