package extraction

import (
	"testing"

	"recipenow-backend/pkg/fieldpath"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLines(texts ...string) []Line {
	lines := make([]Line, 0, len(texts))
	for i, text := range texts {
		lines = append(lines, Line{
			ID:         uuid.New(),
			Page:       0,
			Text:       text,
			BBox:       []float64{10, float64(10 + i*30), 200, 20},
			Confidence: 0.9,
		})
	}
	return lines
}

func TestExtractFullRecipe(t *testing.T) {
	lines := makeLines(
		"My Favorite Pancakes",
		"Serves 4",
		"Prep time: 10 min",
		"Ingredients:",
		"2 cups flour",
		"1/2 tsp salt",
		"2 eggs (optional)",
		"Instructions:",
		"1. Mix the dry ingredients together.",
		"2. Add eggs and milk, whisk until smooth.",
		"vegetarian, breakfast",
	)

	res := NewExtractor().Extract(lines)

	assert.Equal(t, "My Favorite Pancakes", res.Draft.Title)

	require.NotNil(t, res.Draft.Servings)
	assert.Equal(t, 4, *res.Draft.Servings)
	assert.Nil(t, res.Draft.ServingsEstimate)

	require.NotNil(t, res.Draft.Times)
	require.NotNil(t, res.Draft.Times.PrepMin)
	assert.Equal(t, 10, *res.Draft.Times.PrepMin)

	require.Len(t, res.Draft.Ingredients, 3)
	assert.Equal(t, "2 cups flour", res.Draft.Ingredients[0].OriginalText)
	assert.Equal(t, "flour", res.Draft.Ingredients[0].NameNorm)
	require.NotNil(t, res.Draft.Ingredients[0].Quantity)
	assert.Equal(t, 2.0, *res.Draft.Ingredients[0].Quantity)
	require.NotNil(t, res.Draft.Ingredients[0].Unit)
	assert.Equal(t, "cup", *res.Draft.Ingredients[0].Unit)
	assert.True(t, res.Draft.Ingredients[2].Optional)

	require.Len(t, res.Draft.Steps, 2)
	assert.Equal(t, "Mix the dry ingredients together.", res.Draft.Steps[0].Text)

	assert.Equal(t, []string{"vegetarian", "breakfast"}, res.Draft.Tags)

	// Every populated field carries its contributing lines.
	for _, field := range res.Fields {
		assert.NotEmpty(t, field.Lines, field.Path.String())
	}
}

func TestExtractWithoutHeaders(t *testing.T) {
	lines := makeLines(
		"Garlic Butter Rice",
		"1 cup rice",
		"2 tbsp butter",
		"3 cloves garlic",
		"Cook the rice according to package directions.",
		"Melt butter and fry the garlic until golden.",
	)

	res := NewExtractor().Extract(lines)

	assert.Equal(t, "Garlic Butter Rice", res.Draft.Title)
	require.Len(t, res.Draft.Ingredients, 3)
	assert.Equal(t, "garlic", res.Draft.Ingredients[2].NameNorm)
	require.Len(t, res.Draft.Steps, 2)
}

func TestExtractEmptyInput(t *testing.T) {
	res := NewExtractor().Extract(nil)

	assert.Empty(t, res.Draft.Title)
	assert.Empty(t, res.Draft.Ingredients)
	assert.Empty(t, res.Draft.Steps)
	assert.Empty(t, res.Fields)
}

func TestExtractServingsEstimate(t *testing.T) {
	lines := makeLines(
		"Family Stew",
		"Serves about 6 people",
		"Ingredients:",
		"2 lbs beef",
		"Instructions:",
		"1. Brown the beef on all sides in a heavy pot.",
	)

	res := NewExtractor().Extract(lines)

	assert.Nil(t, res.Draft.Servings)
	require.NotNil(t, res.Draft.ServingsEstimate)
	require.NotNil(t, res.Draft.ServingsEstimate.Value)
	assert.Equal(t, 6, *res.Draft.ServingsEstimate.Value)
	assert.False(t, res.Draft.ServingsEstimate.ApprovedByUser)
}

func TestExtractIsDeterministic(t *testing.T) {
	lines := makeLines(
		"Tomato Soup",
		"Ingredients:",
		"4 tomatoes",
		"1 onion",
		"Method:",
		"1. Simmer everything together for twenty minutes.",
	)

	first := NewExtractor().Extract(lines)
	second := NewExtractor().Extract(lines)

	assert.Equal(t, first.Draft, second.Draft)
	require.Equal(t, len(first.Fields), len(second.Fields))
	for i := range first.Fields {
		assert.Equal(t, first.Fields[i].Path, second.Fields[i].Path)
		assert.Equal(t, first.Fields[i].Text, second.Fields[i].Text)
	}
}

func TestParseMinutes(t *testing.T) {
	cases := map[string]int{
		"prep time: 10 min":       10,
		"cook time 1 hour 30 min": 90,
		"total: 2 hours":          120,
		"45 minutes":              45,
	}
	for input, want := range cases {
		got, ok := parseMinutes(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := parseMinutes("no time here")
	assert.False(t, ok)
}

func TestMeanConfidence(t *testing.T) {
	lines := []Line{
		{Confidence: 0.9},
		{Confidence: 0.5},
	}
	assert.InDelta(t, 0.7, MeanConfidence(lines), 1e-9)
	assert.Zero(t, MeanConfidence(nil))
}

func TestFieldPathsAddressLeaves(t *testing.T) {
	lines := makeLines(
		"Plain Omelette",
		"Ingredients:",
		"3 eggs",
		"Instructions:",
		"1. Whisk the eggs and cook them in a hot pan.",
	)

	res := NewExtractor().Extract(lines)
	for _, field := range res.Fields {
		_, err := fieldpath.Parse(field.Path.String())
		assert.NoError(t, err, field.Path.String())
	}
}
