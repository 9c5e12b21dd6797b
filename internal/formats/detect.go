package formats

import (
	"fmt"
	"sort"
	"strings"
)

// StandardLegalMarks are the regulation marks legal in the current Pokémon
// standard rotation. Older marks (and unmarked printings) are expanded only.
var StandardLegalMarks = map[string]bool{
	"G": true,
	"H": true,
	"I": true,
}

// Detection is the outcome of format inference. Reason is a single
// explanatory sentence by contract.
type Detection struct {
	Format     Format
	Confidence int // 0-100
	Reason     string
}

// MarkObservation is the regulation-mark evidence for one resolved card.
// BasicEnergy printings are exempt from mark checks: they are legal in
// every format regardless of printing age.
type MarkObservation struct {
	Mark        string
	BasicEnergy bool
}

// Detect infers the competitive format from the resolved card pool. It is
// only called when no explicit override was supplied; an override always
// short-circuits detection at the orchestrator.
func Detect(game Game, observations []MarkObservation) Detection {
	if game == GameRiftbound {
		return Detection{
			Format:     FormatRiftbound,
			Confidence: 95,
			Reason:     "Riftbound decks are validated against the constructed format.",
		}
	}

	marks := make(map[string]bool)
	unmarked := 0
	for _, obs := range observations {
		if obs.BasicEnergy {
			continue
		}
		if obs.Mark == "" {
			unmarked++
			continue
		}
		marks[obs.Mark] = true
	}

	if len(marks) == 0 && unmarked == 0 {
		return Detection{
			Format:     FormatStandard,
			Confidence: 30,
			Reason:     "No regulation marks were observed, so the most restrictive format is assumed.",
		}
	}

	var illegal []string
	for mark := range marks {
		if !StandardLegalMarks[mark] {
			illegal = append(illegal, mark)
		}
	}
	sort.Strings(illegal)

	if unmarked > 0 {
		return Detection{
			Format:     FormatExpanded,
			Confidence: 85,
			Reason:     fmt.Sprintf("%d printing(s) carry no regulation mark and are only legal in expanded.", unmarked),
		}
	}
	if len(illegal) > 0 {
		return Detection{
			Format:     FormatExpanded,
			Confidence: 90,
			Reason:     fmt.Sprintf("Regulation mark(s) %s have rotated out of standard.", strings.Join(illegal, ", ")),
		}
	}

	// Every mark is inside the current window: prefer the most restrictive
	// format consistent with the evidence.
	return Detection{
		Format:     FormatStandard,
		Confidence: 90,
		Reason:     "Every observed regulation mark is legal in the current standard rotation.",
	}
}
