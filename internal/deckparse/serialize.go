package deckparse

import (
	"fmt"
	"strings"
)

// ExportCard is one entry of a deck list being serialized back to text.
// Section is an optional header the riftbound dialect groups lines under.
type ExportCard struct {
	Quantity        int
	Name            string
	SetCode         string
	CollectorNumber string
	Section         string
}

// Serialize renders cards back into the textual form of a dialect.
// Quantity and name round-trip losslessly; set code and collector number
// are emitted only by dialects that can encode them.
func Serialize(cards []ExportCard, dialect Dialect) (string, error) {
	var sb strings.Builder

	switch dialect {
	case DialectLive, DialectGeneric:
		for _, c := range cards {
			sb.WriteString(fmt.Sprintf("%d %s", c.Quantity, c.Name))
			if dialect == DialectLive && c.SetCode != "" && c.CollectorNumber != "" {
				sb.WriteString(fmt.Sprintf(" %s %s", strings.ToUpper(c.SetCode), c.CollectorNumber))
			}
			sb.WriteString("\n")
		}
	case DialectPocket:
		for _, c := range cards {
			sb.WriteString(fmt.Sprintf("%s x%d\n", c.Name, c.Quantity))
		}
	case DialectRiftbound:
		section := ""
		for _, c := range cards {
			if c.Section != "" && c.Section != section {
				if section != "" {
					sb.WriteString("\n")
				}
				section = c.Section
				sb.WriteString(section)
				sb.WriteString(":\n")
			}
			sb.WriteString(fmt.Sprintf("%d %s\n", c.Quantity, c.Name))
		}
	default:
		return "", fmt.Errorf("unsupported dialect: %s", dialect)
	}

	return sb.String(), nil
}
