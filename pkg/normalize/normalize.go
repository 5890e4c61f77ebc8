// Package normalize canonicalizes free-text ingredient descriptions: names
// into comparable keys and quantity/unit strings into numeric values with
// canonical unit codes. Both derivations are pure functions of their input;
// matching correctness depends on that determinism.
package normalize

import (
	"regexp"
	"strings"
)

var (
	reBullets     = regexp.MustCompile(`^[\s\*\-•·]+`)
	reParens      = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	reAfterComma  = regexp.MustCompile(`\s*,.*$`)
	reLeadingQty  = regexp.MustCompile(`^[\d\s\-./½⅓¼¾⅔⅕⅖⅛⅜⅝⅞]+(?:tsp|tbsp|tablespoons?|teaspoons?|cups?|oz|ounces?|ml|l|g|kg|lbs?|pounds?|pinch|dash|handful|cloves?|cans?|slices?)?\s*`)
	reLeadingOf   = regexp.MustCompile(`^of\s+`)
	reQualifiers  = regexp.MustCompile(`^(fresh|dried|ground|powdered|minced|chopped|diced|sliced|grated|shredded|melted|softened|cooked|raw|roasted|toasted|crushed)\s+`)
	reDescriptors = regexp.MustCompile(`\s*\b(optional|to taste|if desired|for garnish|as needed)\b\s*`)
	rePunct       = regexp.MustCompile(`[^a-z0-9\s\-]`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// irregularPlurals covers food nouns whose singular is not a suffix rule away.
var irregularPlurals = map[string]string{
	"tomatoes": "tomato",
	"potatoes": "potato",
	"leaves":   "leaf",
	"loaves":   "loaf",
	"halves":   "half",
	"berries":  "berry",
	"cherries": "cherry",
	"chilies":  "chili",
	"chillies": "chilli",
}

// plainPlurals are common food nouns where stripping a trailing "s" is safe.
var plainPlurals = map[string]bool{
	"eggs":        true,
	"onions":      true,
	"carrots":     true,
	"peppers":     true,
	"mushrooms":   true,
	"cloves":      true,
	"lemons":      true,
	"limes":       true,
	"apples":      true,
	"bananas":     true,
	"cups":        true,
	"teaspoons":   true,
	"tablespoons": true,
	"ounces":      true,
	"pounds":      true,
	"shallots":    true,
	"scallions":   true,
	"beans":       true,
	"peas":        true,
	"almonds":     true,
	"walnuts":     true,
}

// Name canonicalizes an ingredient name into the key used for matching:
// lower-cased, punctuation and parenthetical asides stripped, embedded
// leading quantity/unit tokens removed, common plurals singularized.
// Idempotent: Name(Name(x)) == Name(x).
func Name(s string) string {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return ""
	}

	text = reBullets.ReplaceAllString(text, "")
	text = reParens.ReplaceAllString(text, " ")
	text = reAfterComma.ReplaceAllString(text, "")
	text = reDescriptors.ReplaceAllString(text, " ")
	text = reLeadingQty.ReplaceAllString(text, "")
	text = reLeadingOf.ReplaceAllString(text, "")

	// Qualifiers stack ("fresh ground pepper"), so strip until fixpoint.
	for {
		stripped := reQualifiers.ReplaceAllString(text, "")
		if stripped == text {
			break
		}
		text = stripped
	}

	text = rePunct.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	words := strings.Fields(text)
	if len(words) > 0 {
		words[len(words)-1] = singularize(words[len(words)-1])
	}
	return strings.Join(words, " ")
}

func singularize(word string) string {
	if singular, ok := irregularPlurals[word]; ok {
		return singular
	}
	if plainPlurals[word] {
		return strings.TrimSuffix(word, "s")
	}
	if strings.HasSuffix(word, "ies") && len(word) > 4 {
		return strings.TrimSuffix(word, "ies") + "y"
	}
	return word
}

// Tokens splits a normalized name into its word tokens, used by the matching
// engine's token-subset comparison.
func Tokens(norm string) []string {
	return strings.Fields(norm)
}
