// Package pipeline orchestrates deck list import: dialect detection,
// tokenizing, card resolution, game and format detection, reprint grouping
// and validation. The orchestrator is pure given the same input and the
// same resolver responses; re-running recomputes everything from scratch.
package pipeline

import (
	"context"

	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/deckparse"
	"github.com/tcgtools/deckimport/internal/formats"
	"github.com/tcgtools/deckimport/internal/gameid"
	"github.com/tcgtools/deckimport/internal/grouping"
	"github.com/tcgtools/deckimport/internal/validate"
)

// Parser is the single entry point external callers use.
type Parser struct {
	resolver cardindex.Resolver
}

// New creates a parser. The resolver may be nil; parsing then degrades to
// unresolved placeholders instead of failing.
func New(resolver cardindex.Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse runs the full import pipeline over raw deck list text. A non-nil
// override short-circuits format detection and is trusted as-is; whether
// it fits the detected game is the validator's job. Malformed input is
// data: it surfaces as line errors and validation issues, never as an
// error return. The only error path is a caller-cancelled context.
func (p *Parser) Parse(ctx context.Context, rawText string, override *formats.Format) (*deck.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dialect := deckparse.DetectDialect(rawText)
	lines, lineErrs := deckparse.Tokenize(rawText, dialect)

	resolved, degraded := p.resolve(ctx, lines)

	cards := buildCards(lines, resolved)

	classification := gameid.Classify(rawText, dialect, lines, resolved)

	format, formatConfidence, formatReason := chooseFormat(classification.Game, cards, override)

	groups := grouping.GroupCards(cards, classification.Game, format.Singleton())

	result := &deck.ParseResult{
		Game:             classification.Game,
		GameConfidence:   classification.Confidence,
		GameReasons:      classification.Reasons,
		InputDialect:     dialect,
		Format:           format,
		FormatConfidence: formatConfidence,
		FormatReason:     formatReason,
		Cards:            cards,
		ReprintGroups:    groups,
		Breakdown:        breakdown(cards),
		Stats:            stats(cards, groups),
		Validation:       validate.Validate(cards, groups, format, classification.Game),
		LineErrors:       lineErrs,
		Degraded:         degraded,
	}
	if result.LineErrors == nil {
		result.LineErrors = []deckparse.LineError{}
	}

	return result, nil
}

// resolve performs the single batched resolver call of a run. Distinct
// names are resolved together to bound latency and request count. An
// infrastructure failure degrades the run instead of failing it.
func (p *Parser) resolve(ctx context.Context, lines []deckparse.ParsedCard) (map[string]cardindex.Result, bool) {
	if p.resolver == nil || len(lines) == 0 {
		return nil, p.resolver == nil && len(lines) > 0
	}

	seen := make(map[string]bool)
	reqs := make([]cardindex.Request, 0, len(lines))
	for _, line := range lines {
		if seen[line.Name] {
			continue
		}
		seen[line.Name] = true
		reqs = append(reqs, cardindex.Request{
			Name:            line.Name,
			SetCode:         line.SetCode,
			CollectorNumber: line.CollectorNumber,
		})
	}

	resolved, err := p.resolver.ResolveMany(ctx, reqs)
	if err != nil {
		return nil, true
	}
	return resolved, false
}

// buildCards enriches tokenized lines with resolver results, preserving
// line order. Misses become unresolved entries that still count.
func buildCards(lines []deckparse.ParsedCard, resolved map[string]cardindex.Result) []deck.ResolvedCard {
	cards := make([]deck.ResolvedCard, 0, len(lines))
	for _, line := range lines {
		rc := deck.ResolvedCard{
			Quantity:        line.Quantity,
			RawName:         line.Name,
			SetCode:         line.SetCode,
			CollectorNumber: line.CollectorNumber,
			Line:            line.Line,
		}
		if res, ok := resolved[line.Name]; ok && res.Found() {
			rc.Card = res.Card
		} else {
			rc.Unresolved = true
		}
		cards = append(cards, rc)
	}
	return cards
}

// chooseFormat applies the override when present, otherwise runs format
// detection over the resolved pool.
func chooseFormat(game formats.Game, cards []deck.ResolvedCard, override *formats.Format) (formats.Format, int, string) {
	if override != nil {
		return *override, 100, "Format was explicitly chosen by the caller."
	}

	observations := make([]formats.MarkObservation, 0, len(cards))
	for _, c := range cards {
		if c.Card == nil {
			continue
		}
		observations = append(observations, formats.MarkObservation{
			Mark:        c.Card.RegulationMark,
			BasicEnergy: c.Card.BasicEnergy,
		})
	}

	d := formats.Detect(game, observations)
	return d.Format, d.Confidence, d.Reason
}

// breakdown counts cards per top-level category.
func breakdown(cards []deck.ResolvedCard) deck.Breakdown {
	b := make(deck.Breakdown)
	for _, c := range cards {
		if c.Card == nil {
			b["Unknown"] += c.Quantity
			continue
		}
		b[c.Card.Supertype] += c.Quantity
	}
	return b
}

// stats summarizes the parsed pool.
func stats(cards []deck.ResolvedCard, groups []deck.CardGroup) deck.Stats {
	s := deck.Stats{
		UniqueCards: len(cards),
		UniqueNames: len(groups),
	}
	for _, c := range cards {
		s.TotalCards += c.Quantity
	}
	for _, g := range groups {
		if g.Status == deck.StatusExceeded {
			s.GroupsExceedingLimit++
		}
	}
	return s
}
