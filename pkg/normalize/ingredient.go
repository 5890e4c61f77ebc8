package normalize

import "strings"

// ParsedIngredient is the structured form of one free-text ingredient line.
// OriginalText is kept verbatim; Quantity/Unit stay nil when the text has no
// parseable quantity ("a pinch", "salt to taste").
type ParsedIngredient struct {
	OriginalText string
	NameNorm     string
	Quantity     *float64
	Unit         *string
	Optional     bool
}

// ParseIngredient splits an ingredient line into quantity, canonical unit,
// normalized name and optional marker.
func ParseIngredient(text string) ParsedIngredient {
	trimmed := strings.TrimSpace(reBullets.ReplaceAllString(text, ""))
	quantity, unit := Quantity(trimmed)

	return ParsedIngredient{
		OriginalText: trimmed,
		NameNorm:     Name(trimmed),
		Quantity:     quantity,
		Unit:         unit,
		Optional:     strings.Contains(strings.ToLower(trimmed), "optional"),
	}
}
