// Package deck holds the shared result model produced by the import
// pipeline. The JSON shape of ParseResult is the contract presentation
// layers bind to.
package deck

import (
	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/deckparse"
	"github.com/tcgtools/deckimport/internal/formats"
)

// ResolvedCard is a parsed card line enriched by the card resolver. When
// the name could not be resolved, Card is nil and Unresolved is true; the
// entry still counts toward totals.
type ResolvedCard struct {
	Quantity        int               `json:"quantity"`
	RawName         string            `json:"rawName"`
	SetCode         string            `json:"setCode,omitempty"`
	CollectorNumber string            `json:"collectorNumber,omitempty"`
	Line            deckparse.RawLine `json:"sourceLine"`
	Card            *cardindex.Card   `json:"card,omitempty"`
	Unresolved      bool              `json:"unresolved,omitempty"`
}

// Name returns the canonical display name, falling back to the raw name
// for unresolved entries.
func (c ResolvedCard) Name() string {
	if c.Card != nil {
		return c.Card.Name
	}
	return c.RawName
}

// BasicEnergy reports whether the entry is a basic energy printing.
func (c ResolvedCard) BasicEnergy() bool {
	return c.Card != nil && c.Card.BasicEnergy
}

// GroupStatus classifies a reprint group against its copy limit.
type GroupStatus string

const (
	StatusUnder     GroupStatus = "under"
	StatusAtLimit   GroupStatus = "at_limit"
	StatusExceeded  GroupStatus = "exceeded"
	StatusUnlimited GroupStatus = "unlimited"
)

// CardGroup aggregates every printing sharing one canonical name.
type CardGroup struct {
	Name          string         `json:"name"`
	Key           string         `json:"-"`
	Cards         []ResolvedCard `json:"cards"`
	TotalQuantity int            `json:"totalQuantity"`
	Limit         int            `json:"limit"`
	BasicEnergy   bool           `json:"isBasicEnergy"`
	Status        GroupStatus    `json:"status"`
}

// Severity distinguishes blocking errors from advisory warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueType is the closed set of deck-level validation issues.
type IssueType string

const (
	IssueCardCount          IssueType = "card_count"
	IssueCopyLimit          IssueType = "copy_limit"
	IssueSingletonLimit     IssueType = "singleton_limit"
	IssueNoBasic            IssueType = "no_basic"
	IssueAceSpecLimit       IssueType = "ace_spec_limit"
	IssueRadiantLimit       IssueType = "radiant_limit"
	IssueRuleBoxProhibited  IssueType = "rule_box_prohibited"
	IssueAceSpecProhibited  IssueType = "ace_spec_prohibited"
	IssueStructuralSlot     IssueType = "structural_slot"
	IssueFormatGameMismatch IssueType = "format_game_mismatch"
	IssueLowVariety         IssueType = "low_variety"
	IssueUnresolvedCards    IssueType = "unresolved_cards"
)

// ValidationIssue is one rule outcome with structured arguments so that
// presentation layers can localize freely. Message is a pre-rendered
// English convenience string.
type ValidationIssue struct {
	Type     IssueType      `json:"type"`
	Severity Severity       `json:"severity"`
	Args     map[string]any `json:"args,omitempty"`
	Message  string         `json:"message"`
}

// ValidationSummary carries the counts the validator computed.
type ValidationSummary struct {
	TotalCards   int `json:"totalCards"`
	UniqueNames  int `json:"uniqueNames"`
	BasicPokemon int `json:"basicPokemonCount"`
	AceSpecs     int `json:"aceSpecs"`
	Radiants     int `json:"radiants"`
	RuleBox      int `json:"ruleBoxCount"`
	Unresolved   int `json:"unresolvedCount"`
}

// ValidationReport is the full legality verdict for a deck. IsValid is
// true iff Errors is empty; warnings never gate validity.
type ValidationReport struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
	Summary  ValidationSummary `json:"summary"`
}

// Breakdown counts cards per top-level category.
type Breakdown map[cardindex.Supertype]int

// Stats summarizes the parsed pool.
type Stats struct {
	TotalCards           int `json:"totalCards"`
	UniqueCards          int `json:"uniqueCards"`
	UniqueNames          int `json:"uniqueNames"`
	GroupsExceedingLimit int `json:"groupsExceedingLimit"`
}

// ParseResult is the externally visible aggregate of one pipeline run.
// It is immutable and fully determined by (rawText, formatOverride).
type ParseResult struct {
	Game             formats.Game          `json:"tcg"`
	GameConfidence   int                   `json:"tcgConfidence"`
	GameReasons      []string              `json:"tcgReasons"`
	InputDialect     deckparse.Dialect     `json:"inputFormat"`
	Format           formats.Format        `json:"format"`
	FormatConfidence int                   `json:"formatConfidence"`
	FormatReason     string                `json:"formatReason"`
	Cards            []ResolvedCard        `json:"cards"`
	ReprintGroups    []CardGroup           `json:"reprintGroups"`
	Breakdown        Breakdown             `json:"breakdown"`
	Stats            Stats                 `json:"stats"`
	Validation       ValidationReport      `json:"validation"`
	LineErrors       []deckparse.LineError `json:"lineErrors"`
	Degraded         bool                  `json:"degraded,omitempty"`
}
