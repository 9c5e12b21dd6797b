package deckparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RawLine is one non-empty, non-comment physical line of input together
// with its 1-based line number for diagnostics.
type RawLine struct {
	Number int    `json:"line"`
	Text   string `json:"text"`
}

// ParsedCard is the result of tokenizing one raw line.
type ParsedCard struct {
	Quantity        int     `json:"quantity"`
	Name            string  `json:"name"`
	SetCode         string  `json:"setCode,omitempty"`
	CollectorNumber string  `json:"collectorNumber,omitempty"`
	Line            RawLine `json:"sourceLine"`
}

// ErrorReason is the closed taxonomy of line-level parse failures.
type ErrorReason string

const (
	ReasonEmptyAfterTrim        ErrorReason = "empty_after_trim"
	ReasonMissingQuantity       ErrorReason = "missing_quantity"
	ReasonNonPositiveQuantity   ErrorReason = "non_positive_quantity"
	ReasonMissingName           ErrorReason = "missing_name"
	ReasonUnrecognizedStructure ErrorReason = "unrecognized_structure"
)

// LineError reports a line that could not be tokenized under the active
// dialect grammar. Line errors are recoverable: the rest of the list is
// still parsed.
type LineError struct {
	Line   RawLine     `json:"sourceLine"`
	Reason ErrorReason `json:"reason"`
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line.Number, e.Reason, e.Line.Text)
}

var (
	// Live export card line: "4 Charizard ex OBF 125". The set code is a
	// trailing 2-5 character alphanumeric token followed by a collector
	// number; both are optional together.
	setCodeRe   = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,4}$`)
	collectorRe = regexp.MustCompile(`^[0-9]+[a-zA-Z]?$|^[A-Z]{0,3}[0-9]+$`)

	// Pocket export card line: "Charizard ex x2" or "Charizard ex ×2".
	pocketCardRe = regexp.MustCompile(`^(.+?)\s*[x×]\s*(-?\d+)$`)

	// Generic card line: "4 Charizard ex" or "4x Charizard ex".
	genericCardRe = regexp.MustCompile(`^(-?\d+)[xX]?\s+(.+)$`)

	leadingQtyRe = regexp.MustCompile(`^-?\d+`)
)

// Tokenize splits raw text into card lines under the given dialect.
// Blank lines, comments and section headers are skipped; every remaining
// line yields either a ParsedCard or a LineError. Both slices preserve
// input order and one pass never aborts on a bad line.
func Tokenize(raw string, dialect Dialect) ([]ParsedCard, []LineError) {
	var cards []ParsedCard
	var errs []LineError

	for i, text := range strings.Split(raw, "\n") {
		text = strings.TrimSpace(text)
		if text == "" || isComment(text) || isHeader(text) {
			continue
		}

		line := RawLine{Number: i + 1, Text: text}
		card, lineErr := TokenizeLine(line, dialect)
		if lineErr != nil {
			errs = append(errs, *lineErr)
			continue
		}
		cards = append(cards, card)
	}

	return cards, errs
}

// isHeader reports whether a line is a structural header rather than a card.
func isHeader(line string) bool {
	switch strings.ToLower(line) {
	case "deck", "sideboard", "mainboard":
		return true
	}
	return liveHeaderRe.MatchString(line) || riftboundHeaderRe.MatchString(line)
}

// TokenizeLine tokenizes a single raw line under the given dialect grammar.
// It returns either a parsed card or a line error, never both.
func TokenizeLine(line RawLine, dialect Dialect) (ParsedCard, *LineError) {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonEmptyAfterTrim}
	}

	switch dialect {
	case DialectLive:
		return tokenizeLive(line, text)
	case DialectPocket:
		return tokenizePocket(line, text)
	default:
		// Riftbound card lines share the generic "<qty> <name>" shape;
		// the slot sections only matter for classification.
		return tokenizeGeneric(line, text)
	}
}

// tokenizeLive parses "<qty> <name...> [<SETCODE> <number>]".
func tokenizeLive(line RawLine, text string) (ParsedCard, *LineError) {
	fields := strings.Fields(text)

	qty, ok := parseQuantity(fields[0])
	if !ok {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingQuantity}
	}
	if qty <= 0 {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonNonPositiveQuantity}
	}

	rest := fields[1:]
	setCode, number := "", ""

	// Peel a trailing "SET 123" pair off the name when present. The name
	// must keep at least one token.
	if len(rest) >= 3 {
		last, prev := rest[len(rest)-1], rest[len(rest)-2]
		if setCodeRe.MatchString(prev) && collectorRe.MatchString(last) {
			setCode, number = prev, last
			rest = rest[:len(rest)-2]
		}
	}

	name := strings.Join(rest, " ")
	if name == "" {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingName}
	}

	return ParsedCard{
		Quantity:        qty,
		Name:            name,
		SetCode:         setCode,
		CollectorNumber: number,
		Line:            line,
	}, nil
}

// tokenizePocket parses "<name...> x<qty>" with the multiplier trailing.
func tokenizePocket(line RawLine, text string) (ParsedCard, *LineError) {
	m := pocketCardRe.FindStringSubmatch(text)
	if m == nil {
		if !strings.ContainsAny(text, "x×") || leadingQtyRe.MatchString(text) {
			return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingQuantity}
		}
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonUnrecognizedStructure}
	}

	qty, ok := parseQuantity(m[2])
	if !ok {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingQuantity}
	}
	if qty <= 0 {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonNonPositiveQuantity}
	}

	name := strings.TrimSpace(m[1])
	if name == "" {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingName}
	}

	return ParsedCard{Quantity: qty, Name: name, Line: line}, nil
}

// tokenizeGeneric parses "<qty> <name...>" with no set or number capture.
func tokenizeGeneric(line RawLine, text string) (ParsedCard, *LineError) {
	m := genericCardRe.FindStringSubmatch(text)
	if m == nil {
		if !leadingQtyRe.MatchString(text) {
			return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingQuantity}
		}
		// A bare quantity with nothing after it has no name to parse.
		if _, ok := parseQuantity(text); ok {
			return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingName}
		}
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonUnrecognizedStructure}
	}

	qty, ok := parseQuantity(m[1])
	if !ok {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingQuantity}
	}
	if qty <= 0 {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonNonPositiveQuantity}
	}

	name := strings.TrimSpace(m[2])
	if name == "" {
		return ParsedCard{}, &LineError{Line: line, Reason: ReasonMissingName}
	}

	return ParsedCard{Quantity: qty, Name: name, Line: line}, nil
}

// parseQuantity parses a quantity token, tolerating a trailing "x" ("4x").
func parseQuantity(token string) (int, bool) {
	token = strings.TrimSuffix(strings.TrimSuffix(token, "x"), "X")
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}
