// Package deckparse detects deck list dialects and tokenizes deck list text
// into card lines. Parsing is tolerant: malformed lines are reported as line
// errors and never abort a parse.
package deckparse

import (
	"regexp"
	"strings"
)

// Dialect is a closed set of textual deck list syntaxes.
type Dialect string

const (
	// DialectLive is the TCG Live desktop client export:
	// sectioned lists ("Pokémon: 12") with "4 Name SET 123" card lines.
	DialectLive Dialect = "live"

	// DialectPocket is the TCG Pocket mobile export: "Name x2" per line.
	DialectPocket Dialect = "pocket"

	// DialectRiftbound is the Riftbound client export with named slot
	// sections (Legend, Battlefields, Runes, Deck).
	DialectRiftbound Dialect = "riftbound"

	// DialectGeneric is the fallback "4 Name" list with no set capture.
	DialectGeneric Dialect = "generic"
)

var (
	// Section header with a count, e.g. "Pokémon: 12" or "Total Cards: 60".
	liveHeaderRe = regexp.MustCompile(`^[\p{L}][\p{L} ]*:\s*\d+$`)

	// Riftbound slot section headers carry no counts.
	riftboundHeaderRe = regexp.MustCompile(`^(?i)(legend|battlefields?|runes?|deck|main deck):$`)

	// Trailing multiplier, e.g. "Pikachu x2" or "Pikachu ×2".
	pocketLineRe = regexp.MustCompile(`^.+\s*[x×]\s*\d+$`)
)

// DetectDialect classifies raw deck list text into a dialect. It never
// fails: when no signature matches, the generic dialect is returned.
// Signatures are checked in priority order; the slot-section signature and
// the counted-section signature are mutually exclusive by construction.
func DetectDialect(raw string) Dialect {
	pocketLines := 0
	cardLines := 0

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isComment(line) {
			continue
		}
		if riftboundHeaderRe.MatchString(line) {
			return DialectRiftbound
		}
		if liveHeaderRe.MatchString(line) {
			return DialectLive
		}
		cardLines++
		if pocketLineRe.MatchString(line) {
			pocketLines++
		}
	}

	// The pocket export has the multiplier on every card line, so a
	// majority of matching lines is decisive.
	if cardLines > 0 && pocketLines*2 > cardLines {
		return DialectPocket
	}
	return DialectGeneric
}

// isComment reports whether a line is a comment and carries no card data.
func isComment(line string) bool {
	return strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#")
}
