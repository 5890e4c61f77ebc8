package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// unitSynonyms maps every accepted unit spelling to its canonical code.
// Aggregation only ever merges quantities whose canonical codes are equal;
// there is no cross-unit conversion.
var unitSynonyms = map[string]string{
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbsp": "tbsp", "tbs": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"cup": "cup", "cups": "cup",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"g": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"clove": "clove", "cloves": "clove",
	"can": "can", "cans": "can",
	"slice": "slice", "slices": "slice",
	"stick": "stick", "sticks": "stick",
	"piece": "piece", "pieces": "piece",
	"bunch": "bunch", "bunches": "bunch",
	"head": "head", "heads": "head",
	"package": "package", "packages": "package", "pkg": "package",
}

var vulgarFractions = map[rune]float64{
	'½': 0.5,
	'⅓': 1.0 / 3.0,
	'⅔': 2.0 / 3.0,
	'¼': 0.25,
	'¾': 0.75,
	'⅕': 0.2,
	'⅖': 0.4,
	'⅛': 0.125,
	'⅜': 0.375,
	'⅝': 0.625,
	'⅞': 0.875,
}

var (
	reFraction = regexp.MustCompile(`^(\d+)/(\d+)$`)
	reRange    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*\d+(?:\.\d+)?$`)
	reNumber   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// CanonicalUnit maps a unit token to its canonical code.
func CanonicalUnit(token string) (string, bool) {
	code, ok := unitSynonyms[strings.ToLower(strings.TrimSpace(token))]
	return code, ok
}

// Quantity parses a quantity/unit string ("1/2 tsp", "2-3 cups", "2½",
// "250 g"). Unparseable text yields (nil, nil); callers keep the original
// text verbatim, it is never dropped. A parseable number with no recognized
// unit yields a quantity with a nil unit.
func Quantity(s string) (*float64, *string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return nil, nil
	}

	value, consumed := parseNumeric(fields)
	if consumed == 0 {
		return nil, nil
	}

	var unit *string
	if consumed < len(fields) {
		if code, ok := CanonicalUnit(fields[consumed]); ok {
			unit = &code
		}
	}
	return &value, unit
}

// parseNumeric reads a leading numeric value from the token list and returns
// it with the number of tokens consumed (0 when the text is not numeric).
// Handles integers, decimals, ascii and vulgar fractions, mixed numbers
// ("2 1/2"), and ranges ("2-3", taking the lower bound).
func parseNumeric(fields []string) (float64, int) {
	value, ok := parseToken(fields[0])
	if !ok {
		return 0, 0
	}

	// Mixed number: a whole part followed by a fraction token.
	if len(fields) > 1 && value == float64(int(value)) {
		if frac, ok := parseFractionToken(fields[1]); ok {
			return value + frac, 2
		}
	}
	return value, 1
}

func parseToken(tok string) (float64, bool) {
	if m := reRange.FindStringSubmatch(tok); m != nil {
		low, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return low, true
	}
	if reNumber.MatchString(tok) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if frac, ok := parseFractionToken(tok); ok {
		return frac, true
	}
	// Attached vulgar fraction: "2½".
	runes := []rune(tok)
	if len(runes) >= 2 {
		if frac, ok := vulgarFractions[runes[len(runes)-1]]; ok {
			whole := string(runes[:len(runes)-1])
			if reNumber.MatchString(whole) {
				v, err := strconv.ParseFloat(whole, 64)
				if err != nil {
					return 0, false
				}
				return v + frac, true
			}
		}
	}
	return 0, false
}

func parseFractionToken(tok string) (float64, bool) {
	if m := reFraction.FindStringSubmatch(tok); m != nil {
		num, err1 := strconv.ParseFloat(m[1], 64)
		denom, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil || denom == 0 {
			return 0, false
		}
		return num / denom, true
	}
	runes := []rune(tok)
	if len(runes) == 1 {
		if frac, ok := vulgarFractions[runes[0]]; ok {
			return frac, true
		}
	}
	return 0, false
}
