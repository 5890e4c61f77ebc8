package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	cases := map[string]string{
		"2 cups all-purpose flour":       "all-purpose flour",
		"1.5 tbsp olive oil":             "olive oil",
		"3 large eggs":                   "large egg",
		"chopped onion":                  "onion",
		"Fresh Ground Pepper":            "pepper",
		"salt":                           "salt",
		"2 cloves garlic, minced":        "garlic",
		"1 cup tomatoes (diced)":         "tomato",
		"butter, softened (see note)":    "butter",
		"parsley for garnish":            "parsley",
		"1/2 tsp vanilla extract":        "vanilla extract",
		"½ cup sugar":                    "sugar",
		"grated parmesan (optional)":     "parmesan",
		"  • 2 tbsp soy sauce  ":         "soy sauce",
		"":                               "",
	}

	for input, want := range cases {
		assert.Equal(t, want, Name(input), "input %q", input)
	}
}

func TestNameIdempotent(t *testing.T) {
	inputs := []string{
		"2 cups all-purpose flour",
		"chopped onion",
		"Fresh Ground Pepper",
		"1 cup tomatoes (diced)",
		"3 large eggs",
		"salt and pepper to taste",
		"7-grain bread",
		"½ cup sugar",
	}

	for _, input := range inputs {
		once := Name(input)
		assert.Equal(t, once, Name(once), "input %q", input)
	}
}

func TestQuantity(t *testing.T) {
	cup := "cup"
	tsp := "tsp"
	tbsp := "tbsp"
	g := "g"

	cases := []struct {
		input string
		qty   *float64
		unit  *string
	}{
		{"1/2 tsp", f(0.5), &tsp},
		{"½ tsp", f(0.5), &tsp},
		{"2 cups", f(2), &cup},
		{"2-3 tbsp", f(2), &tbsp},
		{"2 1/2 cups", f(2.5), &cup},
		{"2½ cups", f(2.5), &cup},
		{"250 g", f(250), &g},
		{"1.5 tablespoons", f(1.5), &tbsp},
		{"3", f(3), nil},
		{"a pinch", nil, nil},
		{"to taste", nil, nil},
		{"", nil, nil},
	}

	for _, c := range cases {
		qty, unit := Quantity(c.input)
		if c.qty == nil {
			assert.Nil(t, qty, "input %q", c.input)
		} else {
			assert.NotNil(t, qty, "input %q", c.input)
			assert.InDelta(t, *c.qty, *qty, 1e-9, "input %q", c.input)
		}
		assert.Equal(t, c.unit, unit, "input %q", c.input)
	}
}

func TestCanonicalUnit(t *testing.T) {
	for _, syn := range []string{"tbsp", "tablespoon", "Tablespoons", "tbs"} {
		code, ok := CanonicalUnit(syn)
		assert.True(t, ok, syn)
		assert.Equal(t, "tbsp", code, syn)
	}

	_, ok := CanonicalUnit("bucket")
	assert.False(t, ok)
}

func TestParseIngredient(t *testing.T) {
	parsed := ParseIngredient("• 2 cups all-purpose flour")
	assert.Equal(t, "2 cups all-purpose flour", parsed.OriginalText)
	assert.Equal(t, "all-purpose flour", parsed.NameNorm)
	assert.NotNil(t, parsed.Quantity)
	assert.Equal(t, 2.0, *parsed.Quantity)
	assert.Equal(t, "cup", *parsed.Unit)
	assert.False(t, parsed.Optional)

	parsed = ParseIngredient("a pinch of saffron (optional)")
	assert.Nil(t, parsed.Quantity)
	assert.Nil(t, parsed.Unit)
	assert.True(t, parsed.Optional)
	assert.Equal(t, "a pinch of saffron (optional)", parsed.OriginalText)
}

func f(v float64) *float64 { return &v }
