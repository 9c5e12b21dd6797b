// Package gameid classifies a tokenized deck list into the game it belongs
// to. Every decision signal contributes a weight and a human-readable
// reason; the reasons are part of the contract and are surfaced to users.
package gameid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/deckparse"
	"github.com/tcgtools/deckimport/internal/formats"
)

// Classification is the outcome of game detection.
type Classification struct {
	Game       formats.Game
	Confidence int // 0-100
	Reasons    []string
}

// Signal is one piece of evidence for a game. Signals are independent and
// individually testable; classification is a monotonic combination.
type Signal struct {
	Game   formats.Game
	Weight int
	Reason string
}

var (
	pokemonHeaderRe   = regexp.MustCompile(`(?i)^(pok[eé]mon|trainer|energy):\s*\d+$`)
	riftboundHeaderRe = regexp.MustCompile(`(?i)^(legend|battlefields?|runes?|main deck):$`)
)

// riftboundOnly are card categories that exist in exactly one game.
var riftboundOnly = map[cardindex.Supertype]bool{
	cardindex.SupertypeLegend:      true,
	cardindex.SupertypeBattlefield: true,
	cardindex.SupertypeRune:        true,
}

var pokemonSupertypes = map[cardindex.Supertype]bool{
	cardindex.SupertypePokemon: true,
	cardindex.SupertypeTrainer: true,
	cardindex.SupertypeEnergy:  true,
}

// Classify decides which game a deck list belongs to. The resolved map may
// be nil when the card resolver is unavailable; the vocabulary signal is
// then simply omitted, never fabricated.
func Classify(raw string, dialect deckparse.Dialect, lines []deckparse.ParsedCard, resolved map[string]cardindex.Result) Classification {
	return Score(Signals(raw, dialect, lines, resolved))
}

// Signals gathers every independent piece of evidence from the input.
func Signals(raw string, dialect deckparse.Dialect, lines []deckparse.ParsedCard, resolved map[string]cardindex.Result) []Signal {
	var signals []Signal

	switch dialect {
	case deckparse.DialectPocket:
		signals = append(signals, Signal{
			Game:   formats.GamePokemon,
			Weight: 45,
			Reason: "The trailing multiplier syntax is produced only by the Pokémon TCG Pocket export.",
		})
	case deckparse.DialectLive:
		signals = append(signals, Signal{
			Game:   formats.GamePokemon,
			Weight: 35,
			Reason: "The counted section layout matches the Pokémon TCG Live export.",
		})
	case deckparse.DialectRiftbound:
		signals = append(signals, Signal{
			Game:   formats.GameRiftbound,
			Weight: 50,
			Reason: "The slot section layout matches the Riftbound client export.",
		})
	}

	if header := findHeader(raw, pokemonHeaderRe); header != "" {
		signals = append(signals, Signal{
			Game:   formats.GamePokemon,
			Weight: 25,
			Reason: fmt.Sprintf("The section header %q names a Pokémon TCG card category.", header),
		})
	}
	if header := findHeader(raw, riftboundHeaderRe); header != "" {
		signals = append(signals, Signal{
			Game:   formats.GameRiftbound,
			Weight: 30,
			Reason: fmt.Sprintf("The section header %q names a Riftbound deck slot.", header),
		})
	}

	if n := countEnergyNames(lines); n > 0 {
		signals = append(signals, Signal{
			Game:   formats.GamePokemon,
			Weight: 10,
			Reason: fmt.Sprintf("%d card name(s) end in \"Energy\", a Pokémon TCG resource vocabulary.", n),
		})
	}

	signals = append(signals, resolverSignals(lines, resolved)...)

	return signals
}

// resolverSignals derives evidence from resolved card categories. This is
// best effort: with a nil map no signal is produced.
func resolverSignals(lines []deckparse.ParsedCard, resolved map[string]cardindex.Result) []Signal {
	if resolved == nil {
		return nil
	}

	var signals []Signal
	pokemonNames := 0
	marks := 0

	for _, line := range lines {
		res, ok := resolved[line.Name]
		if !ok || !res.Found() {
			continue
		}
		card := res.Card
		if riftboundOnly[card.Supertype] {
			signals = append(signals, Signal{
				Game:   formats.GameRiftbound,
				Weight: 40,
				Reason: fmt.Sprintf("%q resolves to the %s category, which exists only in Riftbound.", card.Name, card.Supertype),
			})
			return signals
		}
		if pokemonSupertypes[card.Supertype] {
			pokemonNames++
		}
		if card.RegulationMark != "" {
			marks++
		}
	}

	if pokemonNames > 0 {
		signals = append(signals, Signal{
			Game:   formats.GamePokemon,
			Weight: 20,
			Reason: fmt.Sprintf("%d card name(s) resolve to Pokémon TCG categories.", pokemonNames),
		})
	}
	if marks > 0 {
		signals = append(signals, Signal{
			Game:   formats.GamePokemon,
			Weight: 10,
			Reason: fmt.Sprintf("%d printing(s) carry a regulation mark, which only Pokémon TCG cards have.", marks),
		})
	}

	return signals
}

// Score combines independent signals into a classification. Per-game
// weights are summed and clipped to [0,100]; the highest scoring game wins
// and every fired signal's reason is reported.
func Score(signals []Signal) Classification {
	if len(signals) == 0 {
		return Classification{
			Game:       formats.GamePokemon,
			Confidence: 20,
			Reasons:    []string{"No distinguishing signals were found; defaulting to the Pokémon TCG."},
		}
	}

	totals := make(map[formats.Game]int)
	for _, s := range signals {
		totals[s.Game] += s.Weight
	}

	winner := formats.GamePokemon
	if totals[formats.GameRiftbound] > totals[formats.GamePokemon] {
		winner = formats.GameRiftbound
	}

	confidence := totals[winner]
	if confidence > 100 {
		confidence = 100
	}

	reasons := make([]string, 0, len(signals))
	for _, s := range signals {
		if s.Game == winner {
			reasons = append(reasons, s.Reason)
		}
	}

	return Classification{Game: winner, Confidence: confidence, Reasons: reasons}
}

// findHeader returns the first trimmed line matching re, or "".
func findHeader(raw string, re *regexp.Regexp) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if re.MatchString(line) {
			return line
		}
	}
	return ""
}

// countEnergyNames counts tokenized lines whose name ends in "Energy".
func countEnergyNames(lines []deckparse.ParsedCard) int {
	n := 0
	for _, line := range lines {
		if strings.HasSuffix(line.Name, " Energy") || line.Name == "Energy" {
			n++
		}
	}
	return n
}
