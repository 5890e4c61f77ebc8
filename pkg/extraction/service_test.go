package extraction

import (
	"testing"

	"recipenow-backend/domain"
	"recipenow-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMergeVisionFillsOnlyEmptyRegions(t *testing.T) {
	lineA := Line{ID: uuid.New(), Page: 0, Text: "Beef Rendang", BBox: []float64{0, 0, 100, 20}, Confidence: 0.4}
	lineB := Line{ID: uuid.New(), Page: 0, Text: "500 g beef", BBox: []float64{0, 30, 100, 20}, Confidence: 0.4}
	byID := map[string]Line{
		lineA.ID.String(): lineA,
		lineB.ID.String(): lineB,
	}

	res := Result{
		Draft: Draft{Title: "Already Extracted"},
	}

	extraction := domain.VisionExtraction{
		Title: &domain.VisionField{Text: "Beef Rendang", EvidenceLineIDs: []string{lineA.ID.String()}},
		Ingredients: []domain.VisionField{
			{Text: "500 g beef", EvidenceLineIDs: []string{lineB.ID.String()}},
		},
	}

	mergeVision(&res, extraction, byID)

	// The rule-pass title wins; vision only fills the empty region.
	assert.Equal(t, "Already Extracted", res.Draft.Title)
	require.Len(t, res.Draft.Ingredients, 1)
	assert.Equal(t, "beef", res.Draft.Ingredients[0].NameNorm)

	require.Len(t, res.Fields, 1)
	assert.Equal(t, entities.SourceMethodLLMVision, res.Fields[0].Method)
	assert.Equal(t, "ingredients[0].original_text", res.Fields[0].Path.String())
}

func TestMergeVisionDropsValuesWithoutEvidence(t *testing.T) {
	res := Result{}
	extraction := domain.VisionExtraction{
		Title: &domain.VisionField{Text: "Hallucinated Dish"},
		Ingredients: []domain.VisionField{
			{Text: "1 cup imagination", EvidenceLineIDs: []string{uuid.NewString()}},
		},
	}

	mergeVision(&res, extraction, map[string]Line{})

	assert.Empty(t, res.Draft.Title)
	assert.Empty(t, res.Draft.Ingredients)
	assert.Empty(t, res.Fields)
}

func TestMergeVisionServingsEstimate(t *testing.T) {
	line := Line{ID: uuid.New(), Page: 0, Text: "feeds a crowd", BBox: []float64{0, 0, 80, 15}, Confidence: 0.6}
	byID := map[string]Line{line.ID.String(): line}

	value := 8
	confidence := 0.6
	res := Result{}
	extraction := domain.VisionExtraction{
		Servings: &domain.VisionServings{
			Value:           &value,
			IsEstimate:      true,
			Confidence:      &confidence,
			EvidenceLineIDs: []string{line.ID.String()},
		},
	}

	mergeVision(&res, extraction, byID)

	assert.Nil(t, res.Draft.Servings)
	require.NotNil(t, res.Draft.ServingsEstimate)
	assert.Equal(t, 8, *res.Draft.ServingsEstimate.Value)
	assert.False(t, res.Draft.ServingsEstimate.ApprovedByUser)
}

func TestNormalizeDraft(t *testing.T) {
	negative := -5
	thirty := 30
	draft := Draft{
		Ingredients: []entities.Ingredient{
			{OriginalText: "2 cups flour"},
			{OriginalText: "chopped onion", NameNorm: "onion"},
		},
		Tags:  []string{"Vegetarian", "vegetarian", " Dinner "},
		Times: &entities.Times{PrepMin: &negative, CookMin: &thirty},
	}

	normalizeDraft(&draft)

	assert.Equal(t, "flour", draft.Ingredients[0].NameNorm)
	assert.Equal(t, "onion", draft.Ingredients[1].NameNorm)
	assert.Equal(t, []string{"vegetarian", "dinner"}, draft.Tags)
	assert.Nil(t, draft.Times.PrepMin)
	require.NotNil(t, draft.Times.CookMin)
	assert.Equal(t, 30, *draft.Times.CookMin)
}

func TestNormalizeDraftDropsEmptyTimes(t *testing.T) {
	zero := 0
	draft := Draft{Times: &entities.Times{TotalMin: &zero}}

	normalizeDraft(&draft)

	assert.Nil(t, draft.Times)
}

func TestNeedsVisionOnLowMeanConfidence(t *testing.T) {
	service := NewExtractionService(nil, nil, nil, zap.NewNop(), 0.6).(*extractionService)
	complete := Result{Draft: Draft{
		Title:       "Tomato Soup",
		Ingredients: []entities.Ingredient{{OriginalText: "2 tomatoes", NameNorm: "tomato"}},
		Steps:       []entities.Step{{Text: "Simmer everything."}},
	}}

	blurry := []Line{
		{ID: uuid.New(), Text: "Tomato Soup", Confidence: 0.5},
		{ID: uuid.New(), Text: "2 tomatoes", Confidence: 0.3},
	}
	assert.True(t, service.needsVision(complete, blurry))

	crisp := []Line{
		{ID: uuid.New(), Text: "Tomato Soup", Confidence: 0.95},
		{ID: uuid.New(), Text: "2 tomatoes", Confidence: 0.85},
	}
	assert.False(t, service.needsVision(complete, crisp))

	// An empty critical region triggers the fallback regardless of how
	// cleanly the page read.
	noSteps := complete
	noSteps.Draft.Steps = nil
	assert.True(t, service.needsVision(noSteps, crisp))
}
