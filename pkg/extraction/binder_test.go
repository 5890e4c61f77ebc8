package extraction

import (
	"encoding/json"
	"testing"

	"recipenow-backend/entities"
	"recipenow-backend/pkg/fieldpath"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindProducesSpansAndStatuses(t *testing.T) {
	recipeID := uuid.New()
	assetID := uuid.New()

	titleLine := Line{ID: uuid.New(), Page: 0, Text: "Soup", BBox: []float64{10, 10, 100, 20}, Confidence: 0.9}
	ingLine := Line{ID: uuid.New(), Page: 0, Text: "1 onion", BBox: []float64{10, 40, 120, 20}, Confidence: 0.7}
	stepLine := Line{ID: uuid.New(), Page: 0, Text: "1. Simmer the onion gently.", BBox: []float64{10, 70, 200, 20}, Confidence: 0.8}

	res := Result{
		Draft: Draft{
			Title:       "Soup",
			Ingredients: []entities.Ingredient{{OriginalText: "1 onion", NameNorm: "onion"}},
			Steps:       []entities.Step{{Text: "Simmer the onion gently."}},
		},
		Fields: []FieldResult{
			{Path: fieldpath.Title(), Text: "Soup", Lines: []Line{titleLine}, Method: entities.SourceMethodOCR},
			{Path: fieldpath.Ingredient(0, fieldpath.SubOriginalText), Text: "1 onion", Lines: []Line{ingLine}, Method: entities.SourceMethodOCR},
			{Path: fieldpath.Step(0), Text: "Simmer the onion gently.", Lines: []Line{stepLine}, Method: entities.SourceMethodOCR},
		},
	}

	spans, statuses := NewBinder().Bind(recipeID, assetID, res)

	require.Len(t, spans, 3)
	for _, span := range spans {
		assert.Equal(t, recipeID, span.RecipeID)
		assert.Equal(t, assetID, span.AssetID)
		assert.Equal(t, entities.SourceMethodOCR, span.SourceMethod)

		var evidence spanEvidence
		require.NoError(t, json.Unmarshal(span.Evidence, &evidence))
		assert.NotEmpty(t, evidence.OCRLineIDs)
	}

	byPath := map[string]string{}
	for _, st := range statuses {
		byPath[st.FieldPath] = st.Status
	}
	assert.Equal(t, entities.FieldStatusExtracted, byPath["title"])
	assert.Equal(t, entities.FieldStatusExtracted, byPath["ingredients[0].original_text"])
	assert.Equal(t, entities.FieldStatusExtracted, byPath["steps[0].text"])
	assert.Equal(t, entities.FieldStatusMissing, byPath["servings"])

	// Every non-missing status has at least one span.
	spanPaths := map[string]bool{}
	for _, span := range spans {
		spanPaths[span.FieldPath] = true
	}
	for _, st := range statuses {
		if st.Status != entities.FieldStatusMissing {
			assert.True(t, spanPaths[st.FieldPath], st.FieldPath)
		}
	}
}

func TestBindEmptyResultMarksRequiredFieldsMissing(t *testing.T) {
	spans, statuses := NewBinder().Bind(uuid.New(), uuid.New(), Result{})

	assert.Empty(t, spans)
	require.Len(t, statuses, 4)

	byPath := map[string]entities.FieldStatus{}
	for _, st := range statuses {
		byPath[st.FieldPath] = st
	}

	for _, path := range []string{"title", "ingredients", "steps", "servings"} {
		st, ok := byPath[path]
		require.True(t, ok, path)
		assert.Equal(t, entities.FieldStatusMissing, st.Status, path)
		assert.NotEmpty(t, st.Notes, path)
	}
}

func TestBindUnionsBBoxes(t *testing.T) {
	a := Line{ID: uuid.New(), Page: 1, Text: "prep: 10 min", BBox: []float64{10, 10, 100, 20}, Confidence: 0.9}
	b := Line{ID: uuid.New(), Page: 1, Text: "cook: 20 min", BBox: []float64{20, 40, 120, 20}, Confidence: 0.5}

	ten := 10
	twenty := 20
	res := Result{
		Draft: Draft{Times: &entities.Times{PrepMin: &ten, CookMin: &twenty}},
		Fields: []FieldResult{
			{Path: fieldpath.Times(), Text: "prep: 10 min\ncook: 20 min", Lines: []Line{a, b}, Method: entities.SourceMethodOCR},
		},
	}

	spans, _ := NewBinder().Bind(uuid.New(), uuid.New(), res)

	require.Len(t, spans, 1)
	assert.Equal(t, []float64{10, 10, 130, 50}, []float64(spans[0].BBox))
	assert.InDelta(t, 0.7, spans[0].OCRConfidence, 1e-9)
	assert.Equal(t, 1, spans[0].Page)
}

func TestUnionBBoxesEmpty(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0, 0}, unionBBoxes(nil))
}
