package extraction

import (
	"encoding/json"
	"time"

	"recipenow-backend/entities"
	"recipenow-backend/pkg/fieldpath"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Binder turns extractor field results into persistable source spans and
// field statuses. Required fields that produced no value get a missing
// status with no span; user-visible provenance comes from here and nowhere
// else.
type Binder struct{}

func NewBinder() *Binder {
	return &Binder{}
}

type spanEvidence struct {
	OCRLineIDs []string `json:"ocr_line_ids"`
}

// Bind builds one span per field result plus the status rows for the whole
// recipe. Fields with no contributing lines are skipped entirely rather than
// bound without evidence.
func (b *Binder) Bind(recipeID, assetID uuid.UUID, res Result) ([]entities.SourceSpan, []entities.FieldStatus) {
	now := time.Now()

	var spans []entities.SourceSpan
	bound := map[string]bool{}

	for _, field := range res.Fields {
		if len(field.Lines) == 0 {
			continue
		}

		lineIDs := make([]string, 0, len(field.Lines))
		bboxes := make([][]float64, 0, len(field.Lines))
		var confidence float64
		for _, line := range field.Lines {
			lineIDs = append(lineIDs, line.ID.String())
			bboxes = append(bboxes, line.BBox)
			confidence += line.Confidence
		}
		confidence /= float64(len(field.Lines))

		evidence, _ := json.Marshal(spanEvidence{OCRLineIDs: lineIDs})

		spans = append(spans, entities.SourceSpan{
			ID:            uuid.New(),
			RecipeID:      recipeID,
			FieldPath:     field.Path.String(),
			AssetID:       assetID,
			Page:          field.Lines[0].Page,
			BBox:          datatypes.NewJSONSlice(unionBBoxes(bboxes)),
			OCRConfidence: confidence,
			ExtractedText: field.Text,
			SourceMethod:  field.Method,
			Evidence:      datatypes.JSON(evidence),
			CreatedAt:     now,
		})
		bound[field.Path.String()] = true
	}

	statuses := b.resolveStatuses(recipeID, res.Draft, bound)
	return spans, statuses
}

// resolveStatuses emits one extracted status per bound field and a missing
// status for every required region without a value.
func (b *Binder) resolveStatuses(recipeID uuid.UUID, draft Draft, bound map[string]bool) []entities.FieldStatus {
	var statuses []entities.FieldStatus

	add := func(path fieldpath.Path, status, notes string) {
		statuses = append(statuses, entities.FieldStatus{
			ID:        uuid.New(),
			RecipeID:  recipeID,
			FieldPath: path.String(),
			Status:    status,
			Notes:     notes,
		})
	}

	if draft.Title != "" && bound[fieldpath.Title().String()] {
		add(fieldpath.Title(), entities.FieldStatusExtracted, "")
	} else {
		add(fieldpath.Title(), entities.FieldStatusMissing, "Could not detect title in OCR text")
	}

	if len(draft.Ingredients) > 0 {
		for i := range draft.Ingredients {
			path := fieldpath.Ingredient(i, fieldpath.SubOriginalText)
			if bound[path.String()] {
				add(path, entities.FieldStatusExtracted, "")
			}
		}
	} else {
		add(fieldpath.Ingredients(), entities.FieldStatusMissing, "Could not detect ingredients section")
	}

	if len(draft.Steps) > 0 {
		for i := range draft.Steps {
			path := fieldpath.Step(i)
			if bound[path.String()] {
				add(path, entities.FieldStatusExtracted, "")
			}
		}
	} else {
		add(fieldpath.Steps(), entities.FieldStatusMissing, "Could not detect steps section")
	}

	if (draft.Servings != nil || draft.ServingsEstimate != nil) && bound[fieldpath.Servings().String()] {
		add(fieldpath.Servings(), entities.FieldStatusExtracted, "")
	} else {
		add(fieldpath.Servings(), entities.FieldStatusMissing, "Servings not found in OCR text")
	}

	if draft.Times != nil && bound[fieldpath.Times().String()] {
		add(fieldpath.Times(), entities.FieldStatusExtracted, "")
	}
	if len(draft.Tags) > 0 && bound[fieldpath.Tags().String()] {
		add(fieldpath.Tags(), entities.FieldStatusExtracted, "")
	}

	return statuses
}

// unionBBoxes merges [x, y, w, h] boxes into their bounding rectangle.
func unionBBoxes(bboxes [][]float64) []float64 {
	var (
		xMin, yMin = 0.0, 0.0
		xMax, yMax = 0.0, 0.0
		first      = true
	)
	for _, b := range bboxes {
		if len(b) != 4 {
			continue
		}
		if first {
			xMin, yMin = b[0], b[1]
			xMax, yMax = b[0]+b[2], b[1]+b[3]
			first = false
			continue
		}
		if b[0] < xMin {
			xMin = b[0]
		}
		if b[1] < yMin {
			yMin = b[1]
		}
		if b[0]+b[2] > xMax {
			xMax = b[0] + b[2]
		}
		if b[1]+b[3] > yMax {
			yMax = b[1] + b[3]
		}
	}
	if first {
		return []float64{0, 0, 0, 0}
	}
	return []float64{xMin, yMin, xMax - xMin, yMax - yMin}
}
