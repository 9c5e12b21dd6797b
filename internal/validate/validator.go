// Package validate applies format-specific legality rules to a parsed deck.
// Rules are independent predicates: one failing rule never suppresses the
// others, so a single pass reports every problem.
package validate

import (
	"fmt"

	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/formats"
)

// input carries everything a rule may inspect.
type input struct {
	cards   []deck.ResolvedCard
	groups  []deck.CardGroup
	format  formats.Format
	game    formats.Game
	summary deck.ValidationSummary

	legends      int
	battlefields int
	runes        int
}

// rule evaluates one predicate and returns zero or more issues.
type rule func(in *input) []deck.ValidationIssue

// rules run unconditionally and in order for every deck.
var rules = []rule{
	ruleFormatGameMismatch,
	ruleCardCount,
	ruleCopyLimit,
	ruleSingletonLimit,
	ruleNoBasic,
	ruleAceSpecLimit,
	ruleRadiantLimit,
	ruleRuleBoxProhibited,
	ruleAceSpecProhibited,
	ruleStructuralSlots,
	ruleLowVariety,
	ruleUnresolved,
}

// Validate checks the full card list and reprint groups against the rules
// of the resolved format.
func Validate(cards []deck.ResolvedCard, groups []deck.CardGroup, format formats.Format, game formats.Game) deck.ValidationReport {
	in := &input{
		cards:  cards,
		groups: groups,
		format: format,
		game:   game,
	}
	in.summarize()

	report := deck.ValidationReport{
		Errors:   []deck.ValidationIssue{},
		Warnings: []deck.ValidationIssue{},
		Summary:  in.summary,
	}

	for _, r := range rules {
		for _, issue := range r(in) {
			if issue.Severity == deck.SeverityError {
				report.Errors = append(report.Errors, issue)
			} else {
				report.Warnings = append(report.Warnings, issue)
			}
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

// summarize computes the counts the rules and the report share.
func (in *input) summarize() {
	seen := make(map[string]bool)
	for _, c := range in.cards {
		in.summary.TotalCards += c.Quantity
		if !seen[c.Name()] {
			seen[c.Name()] = true
			in.summary.UniqueNames++
		}
		if c.Unresolved {
			in.summary.Unresolved += c.Quantity
			continue
		}
		card := c.Card
		if card.BasicPokemon {
			in.summary.BasicPokemon += c.Quantity
		}
		if card.AceSpec {
			in.summary.AceSpecs += c.Quantity
		}
		if card.Radiant {
			in.summary.Radiants += c.Quantity
		}
		if card.RuleBox {
			in.summary.RuleBox += c.Quantity
		}
		switch card.Supertype {
		case "Legend":
			in.legends += c.Quantity
		case "Battlefield":
			in.battlefields += c.Quantity
		case "Rune":
			in.runes += c.Quantity
		}
	}
}

func errorIssue(t deck.IssueType, args map[string]any, format string, a ...any) deck.ValidationIssue {
	return deck.ValidationIssue{
		Type:     t,
		Severity: deck.SeverityError,
		Args:     args,
		Message:  fmt.Sprintf(format, a...),
	}
}

func warningIssue(t deck.IssueType, args map[string]any, format string, a ...any) deck.ValidationIssue {
	return deck.ValidationIssue{
		Type:     t,
		Severity: deck.SeverityWarning,
		Args:     args,
		Message:  fmt.Sprintf(format, a...),
	}
}

// ruleFormatGameMismatch fires when an explicit format override names a
// format that does not belong to the detected game. The game is never
// silently reassigned.
func ruleFormatGameMismatch(in *input) []deck.ValidationIssue {
	if !in.format.Valid() || in.format.Game() == in.game {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueFormatGameMismatch,
		map[string]any{"format": string(in.format), "game": string(in.game)},
		"Format %q belongs to a different game than the detected %q deck.", in.format, in.game,
	)}
}

func ruleCardCount(in *input) []deck.ValidationIssue {
	expected := formats.DeckSize(in.format)
	if in.summary.TotalCards == expected {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueCardCount,
		map[string]any{"current": in.summary.TotalCards, "expected": expected},
		"Deck has %d cards; the %s format requires exactly %d.", in.summary.TotalCards, in.format, expected,
	)}
}

// ruleCopyLimit reports every group over its copy cap. Under the singleton
// format the dedicated singleton rule reports instead.
func ruleCopyLimit(in *input) []deck.ValidationIssue {
	if in.format.Singleton() {
		return nil
	}
	var issues []deck.ValidationIssue
	for _, g := range in.groups {
		if g.Status != deck.StatusExceeded {
			continue
		}
		issues = append(issues, errorIssue(
			deck.IssueCopyLimit,
			map[string]any{"cardName": g.Name, "current": g.TotalQuantity, "limit": g.Limit},
			"%d copies of %q exceed the limit of %d across all printings.", g.TotalQuantity, g.Name, g.Limit,
		))
	}
	return issues
}

func ruleSingletonLimit(in *input) []deck.ValidationIssue {
	if !in.format.Singleton() {
		return nil
	}
	var issues []deck.ValidationIssue
	for _, g := range in.groups {
		if g.BasicEnergy || g.TotalQuantity <= 1 {
			continue
		}
		issues = append(issues, errorIssue(
			deck.IssueSingletonLimit,
			map[string]any{"cardName": g.Name, "current": g.TotalQuantity, "limit": 1},
			"Singleton format allows one copy of %q; the deck has %d.", g.Name, g.TotalQuantity,
		))
	}
	return issues
}

func ruleNoBasic(in *input) []deck.ValidationIssue {
	if in.game != formats.GamePokemon || in.summary.BasicPokemon > 0 {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueNoBasic,
		nil,
		"The deck contains no Basic Pokémon and cannot start a game.",
	)}
}

func ruleAceSpecLimit(in *input) []deck.ValidationIssue {
	if in.game != formats.GamePokemon || in.summary.AceSpecs <= 1 {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueAceSpecLimit,
		map[string]any{"current": in.summary.AceSpecs, "limit": 1},
		"Deck has %d ACE SPEC cards; only 1 is allowed.", in.summary.AceSpecs,
	)}
}

func ruleRadiantLimit(in *input) []deck.ValidationIssue {
	if in.game != formats.GamePokemon || in.summary.Radiants <= 1 {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueRadiantLimit,
		map[string]any{"current": in.summary.Radiants, "limit": 1},
		"Deck has %d Radiant Pokémon; only 1 is allowed.", in.summary.Radiants,
	)}
}

func ruleRuleBoxProhibited(in *input) []deck.ValidationIssue {
	if !in.format.Singleton() || in.summary.RuleBox == 0 {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueRuleBoxProhibited,
		map[string]any{"count": in.summary.RuleBox},
		"Rule Box cards are prohibited in this format; the deck has %d.", in.summary.RuleBox,
	)}
}

func ruleAceSpecProhibited(in *input) []deck.ValidationIssue {
	if !in.format.Singleton() || in.summary.AceSpecs == 0 {
		return nil
	}
	return []deck.ValidationIssue{errorIssue(
		deck.IssueAceSpecProhibited,
		map[string]any{"count": in.summary.AceSpecs},
		"ACE SPEC cards are prohibited in this format; the deck has %d.", in.summary.AceSpecs,
	)}
}

// ruleStructuralSlots checks Riftbound's fixed-count deck sections. Each
// slot is verified independently of the overall card count.
func ruleStructuralSlots(in *input) []deck.ValidationIssue {
	if in.game != formats.GameRiftbound {
		return nil
	}

	mainDeck := in.summary.TotalCards - in.legends - in.battlefields - in.runes
	slots := []struct {
		name     string
		current  int
		expected int
	}{
		{"Legend", in.legends, formats.RiftboundLegends},
		{"Battlefield", in.battlefields, formats.RiftboundBattlefields},
		{"Rune", in.runes, formats.RiftboundRunes},
		{"Main deck", mainDeck, formats.RiftboundMainDeck},
	}

	var issues []deck.ValidationIssue
	for _, slot := range slots {
		if slot.current == slot.expected {
			continue
		}
		issues = append(issues, errorIssue(
			deck.IssueStructuralSlot,
			map[string]any{"slot": slot.name, "current": slot.current, "expected": slot.expected},
			"%s slot has %d cards; exactly %d required.", slot.name, slot.current, slot.expected,
		))
	}
	return issues
}

func ruleLowVariety(in *input) []deck.ValidationIssue {
	if in.summary.TotalCards < 40 || in.summary.UniqueNames >= 8 {
		return nil
	}
	return []deck.ValidationIssue{warningIssue(
		deck.IssueLowVariety,
		map[string]any{"uniqueNames": in.summary.UniqueNames},
		"Only %d distinct card names for a full deck is unusually low.", in.summary.UniqueNames,
	)}
}

func ruleUnresolved(in *input) []deck.ValidationIssue {
	if in.summary.Unresolved == 0 {
		return nil
	}
	return []deck.ValidationIssue{warningIssue(
		deck.IssueUnresolvedCards,
		map[string]any{"count": in.summary.Unresolved},
		"%d card(s) could not be resolved against the card index.", in.summary.Unresolved,
	)}
}
