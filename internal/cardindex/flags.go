package cardindex

// ruleBoxSubtypes are the Pokémon card subtypes that carry a Rule Box.
var ruleBoxSubtypes = map[string]bool{
	"ex":         true,
	"EX":         true,
	"GX":         true,
	"V":          true,
	"VMAX":       true,
	"VSTAR":      true,
	"V-UNION":    true,
	"Radiant":    true,
	"BREAK":      true,
	"Prism Star": true,
	"ACE SPEC":   true,
}

// DeriveFlags fills the legality-relevant flags from a card's supertype
// and subtypes. Callers populating cards from external data should invoke
// it after setting Supertype and Subtypes.
func DeriveFlags(c *Card) {
	hasSubtype := func(name string) bool {
		for _, s := range c.Subtypes {
			if s == name {
				return true
			}
		}
		return false
	}

	// Rune cards are the basic resource of their game and are uncapped by
	// count, same as basic energy.
	c.BasicEnergy = (c.Supertype == SupertypeEnergy && hasSubtype("Basic")) ||
		c.Supertype == SupertypeRune
	c.BasicPokemon = c.Supertype == SupertypePokemon && hasSubtype("Basic")
	c.AceSpec = hasSubtype("ACE SPEC")
	c.Radiant = hasSubtype("Radiant")

	c.RuleBox = false
	if c.Supertype == SupertypePokemon || c.Supertype == SupertypeTrainer {
		for _, s := range c.Subtypes {
			if ruleBoxSubtypes[s] {
				c.RuleBox = true
				break
			}
		}
	}
}
