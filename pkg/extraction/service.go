package extraction

import (
	"context"
	"errors"
	"strings"

	"recipenow-backend/domain"
	"recipenow-backend/entities"
	"recipenow-backend/internal/utils/storage"
	"recipenow-backend/pkg/fieldpath"
	"recipenow-backend/pkg/normalize"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	// ExtractionService runs the full pipeline for one asset: rule-based
	// extraction over its OCR lines, the vision fallback for critical
	// regions the rules could not fill, normalization, and transactional
	// persistence of the draft with its provenance. Safe to re-invoke for
	// the same asset; spans are replaced, never appended.
	ExtractionService interface {
		Run(ctx context.Context, assetID string, recipeID string) (string, error)
	}

	extractionService struct {
		repo          ExtractionRepository
		extractor     *Extractor
		binder        *Binder
		vision        VisionExtractor
		s3            storage.AwsS3
		log           *zap.Logger
		minConfidence float64
	}
)

func NewExtractionService(repo ExtractionRepository, vision VisionExtractor, s3 storage.AwsS3, log *zap.Logger, minConfidence float64) ExtractionService {
	return &extractionService{
		repo:          repo,
		extractor:     NewExtractor(),
		binder:        NewBinder(),
		vision:        vision,
		s3:            s3,
		log:           log,
		minConfidence: minConfidence,
	}
}

// Run returns the id of the recipe it populated. When recipeID is empty, or
// names a recipe that no longer exists, a fresh draft is created.
func (s *extractionService) Run(ctx context.Context, assetID string, recipeID string) (string, error) {
	asset, err := s.repo.GetAssetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrAssetNotFound
		}
		return "", err
	}

	rows, err := s.repo.GetOCRLines(ctx, assetID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		_ = s.repo.UpdateAssetOCRStatus(ctx, assetID, entities.OCRStatusFailed)
		return "", domain.ErrAssetHasNoLines
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			ID:         row.ID,
			Page:       row.Page,
			Text:       row.Text,
			BBox:       row.BBox,
			Confidence: row.Confidence,
		})
	}

	result := s.extractor.Extract(lines)
	s.log.Info("rule extraction finished",
		zap.String("asset_id", assetID),
		zap.Int("lines", len(lines)),
		zap.Int("ingredients", len(result.Draft.Ingredients)),
		zap.Int("steps", len(result.Draft.Steps)),
	)

	if s.needsVision(result, lines) && s.vision != nil {
		s.runVisionFallback(ctx, asset, lines, &result)
	}

	normalizeDraft(&result.Draft)

	recipe, err := s.loadOrCreateRecipe(ctx, asset, recipeID)
	if err != nil {
		return "", err
	}

	applyDraft(recipe, result.Draft)
	if err := s.repo.SaveRecipe(ctx, recipe); err != nil {
		return "", err
	}

	spans, statuses := s.binder.Bind(recipe.ID, asset.ID, result)
	if err := s.repo.ReplaceProvenance(ctx, recipe.ID, spans, statuses); err != nil {
		return "", err
	}

	if err := s.repo.UpdateAssetOCRStatus(ctx, assetID, entities.OCRStatusCompleted); err != nil {
		return "", err
	}

	s.log.Info("extraction persisted",
		zap.String("asset_id", assetID),
		zap.String("recipe_id", recipe.ID.String()),
		zap.Int("spans", len(spans)),
		zap.Int("field_statuses", len(statuses)),
	)
	return recipe.ID.String(), nil
}

// needsVision triggers the fallback when a critical region is empty or the
// page reads badly overall.
func (s *extractionService) needsVision(result Result, lines []Line) bool {
	if result.Draft.Title == "" || len(result.Draft.Ingredients) == 0 || len(result.Draft.Steps) == 0 {
		return true
	}
	return MeanConfidence(lines) < s.minConfidence
}

// runVisionFallback fills only the regions the rule pass left empty. A
// vision failure is a degraded-but-valid outcome: the regions stay missing.
func (s *extractionService) runVisionFallback(ctx context.Context, asset *entities.MediaAsset, lines []Line, result *Result) {
	image, err := s.s3.GetFile(asset.StoragePath)
	if err != nil {
		s.log.Warn("vision fallback skipped, asset bytes unavailable",
			zap.String("asset_id", asset.ID.String()), zap.Error(err))
		return
	}

	mimeType := "image/jpeg"
	if asset.Type == entities.AssetTypePDF {
		mimeType = "application/pdf"
	}

	extraction, err := s.vision.ExtractRecipe(ctx, image, mimeType, lines)
	if err != nil {
		s.log.Warn("vision fallback failed",
			zap.String("asset_id", asset.ID.String()), zap.Error(err))
		return
	}

	byID := make(map[string]Line, len(lines))
	for _, line := range lines {
		byID[line.ID.String()] = line
	}

	mergeVision(result, extraction, byID)
	s.log.Info("vision fallback merged",
		zap.String("asset_id", asset.ID.String()),
		zap.Int("ingredients", len(result.Draft.Ingredients)),
		zap.Int("steps", len(result.Draft.Steps)),
	)
}

// mergeVision is the second stage of the strategy chain: for each region the
// rule pass already filled, the vision value is ignored. Vision values that
// do not resolve to at least one OCR line are dropped; a value nothing on
// the page supports is a guess, and guesses are disallowed.
func mergeVision(result *Result, extraction domain.VisionExtraction, byID map[string]Line) {
	resolve := func(ids []string) []Line {
		var resolved []Line
		for _, id := range ids {
			if line, ok := byID[id]; ok {
				resolved = append(resolved, line)
			}
		}
		return resolved
	}

	if result.Draft.Title == "" && extraction.Title != nil && strings.TrimSpace(extraction.Title.Text) != "" {
		if evidence := resolve(extraction.Title.EvidenceLineIDs); len(evidence) > 0 {
			result.Draft.Title = strings.TrimSpace(extraction.Title.Text)
			result.Fields = append(result.Fields, FieldResult{
				Path:   fieldpath.Title(),
				Text:   result.Draft.Title,
				Lines:  evidence,
				Method: entities.SourceMethodLLMVision,
			})
		}
	}

	if len(result.Draft.Ingredients) == 0 {
		for _, item := range extraction.Ingredients {
			text := strings.TrimSpace(item.Text)
			evidence := resolve(item.EvidenceLineIDs)
			if text == "" || len(evidence) == 0 {
				continue
			}
			parsed := normalize.ParseIngredient(text)
			index := len(result.Draft.Ingredients)
			result.Draft.Ingredients = append(result.Draft.Ingredients, entities.Ingredient{
				OriginalText: parsed.OriginalText,
				NameNorm:     parsed.NameNorm,
				Quantity:     parsed.Quantity,
				Unit:         parsed.Unit,
				Optional:     parsed.Optional,
			})
			result.Fields = append(result.Fields, FieldResult{
				Path:   fieldpath.Ingredient(index, fieldpath.SubOriginalText),
				Text:   parsed.OriginalText,
				Lines:  evidence,
				Method: entities.SourceMethodLLMVision,
			})
		}
	}

	if len(result.Draft.Steps) == 0 {
		for _, item := range extraction.Steps {
			text := strings.TrimSpace(item.Text)
			evidence := resolve(item.EvidenceLineIDs)
			if text == "" || len(evidence) == 0 {
				continue
			}
			index := len(result.Draft.Steps)
			result.Draft.Steps = append(result.Draft.Steps, entities.Step{Text: text})
			result.Fields = append(result.Fields, FieldResult{
				Path:   fieldpath.Step(index),
				Text:   text,
				Lines:  evidence,
				Method: entities.SourceMethodLLMVision,
			})
		}
	}

	noServings := result.Draft.Servings == nil && result.Draft.ServingsEstimate == nil
	if noServings && extraction.Servings != nil && extraction.Servings.Value != nil {
		if evidence := resolve(extraction.Servings.EvidenceLineIDs); len(evidence) > 0 {
			value := *extraction.Servings.Value
			if extraction.Servings.IsEstimate {
				result.Draft.ServingsEstimate = &entities.ServingsEstimate{
					Value:      &value,
					Confidence: extraction.Servings.Confidence,
					Basis:      "vision reading",
				}
			} else {
				result.Draft.Servings = &value
			}
			result.Fields = append(result.Fields, FieldResult{
				Path:   fieldpath.Servings(),
				Text:   joinTexts(evidence),
				Lines:  evidence,
				Method: entities.SourceMethodLLMVision,
			})
		}
	}
}

// normalizeDraft is the post-extraction normalize pass: every ingredient
// gets its name_norm, tags are lower-cased and deduplicated, and
// non-positive time values are dropped.
func normalizeDraft(draft *Draft) {
	for i := range draft.Ingredients {
		if draft.Ingredients[i].NameNorm == "" {
			draft.Ingredients[i].NameNorm = normalize.Name(draft.Ingredients[i].OriginalText)
		}
	}

	if len(draft.Tags) > 0 {
		seen := make(map[string]bool, len(draft.Tags))
		deduped := draft.Tags[:0]
		for _, tag := range draft.Tags {
			lower := strings.ToLower(strings.TrimSpace(tag))
			if lower == "" || seen[lower] {
				continue
			}
			seen[lower] = true
			deduped = append(deduped, lower)
		}
		draft.Tags = deduped
	}

	if draft.Times != nil {
		dropNonPositive(&draft.Times.PrepMin)
		dropNonPositive(&draft.Times.CookMin)
		dropNonPositive(&draft.Times.TotalMin)
		if draft.Times.PrepMin == nil && draft.Times.CookMin == nil && draft.Times.TotalMin == nil {
			draft.Times = nil
		}
	}
}

func dropNonPositive(v **int) {
	if *v != nil && **v <= 0 {
		*v = nil
	}
}

func (s *extractionService) loadOrCreateRecipe(ctx context.Context, asset *entities.MediaAsset, recipeID string) (*entities.Recipe, error) {
	if recipeID != "" {
		recipe, err := s.repo.GetRecipeByID(ctx, recipeID)
		if err == nil {
			return recipe, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	recipe := &entities.Recipe{
		ID:     uuid.New(),
		UserID: asset.UserID,
		Status: entities.RecipeStatusDraft,
	}
	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func applyDraft(recipe *entities.Recipe, draft Draft) {
	recipe.Title = draft.Title
	recipe.Servings = draft.Servings
	recipe.ServingsEstimate = draft.ServingsEstimate
	recipe.Times = draft.Times
	recipe.Ingredients = datatypes.NewJSONSlice(draft.Ingredients)
	recipe.Steps = datatypes.NewJSONSlice(draft.Steps)
	recipe.Tags = datatypes.NewJSONSlice(draft.Tags)
}
