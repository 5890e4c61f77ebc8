package extraction

import (
	"context"

	"recipenow-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ExtractionRepository interface {
		GetAssetByID(ctx context.Context, id string) (*entities.MediaAsset, error)
		GetOCRLines(ctx context.Context, assetID string) ([]*entities.OCRLine, error)
		UpdateAssetOCRStatus(ctx context.Context, assetID string, status string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		SaveRecipe(ctx context.Context, recipe *entities.Recipe) error
		ReplaceProvenance(ctx context.Context, recipeID uuid.UUID, spans []entities.SourceSpan, statuses []entities.FieldStatus) error
	}

	extractionRepository struct {
		db *gorm.DB
	}
)

func NewExtractionRepository(db *gorm.DB) ExtractionRepository {
	return &extractionRepository{db: db}
}

func (r *extractionRepository) GetAssetByID(ctx context.Context, id string) (*entities.MediaAsset, error) {
	var asset entities.MediaAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *extractionRepository) GetOCRLines(ctx context.Context, assetID string) ([]*entities.OCRLine, error) {
	var lines []*entities.OCRLine
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("page asc, id asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *extractionRepository) UpdateAssetOCRStatus(ctx context.Context, assetID string, status string) error {
	return r.db.WithContext(ctx).Model(&entities.MediaAsset{}).
		Where("id = ?", assetID).
		Updates(map[string]interface{}{"ocr_status": status}).Error
}

func (r *extractionRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *extractionRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *extractionRepository) SaveRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// ReplaceProvenance swaps the recipe's spans and statuses in one
// transaction. Re-extraction replaces, it never appends, so a retried job
// cannot leave duplicated spans behind.
func (r *extractionRepository) ReplaceProvenance(ctx context.Context, recipeID uuid.UUID, spans []entities.SourceSpan, statuses []entities.FieldStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.SourceSpan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.FieldStatus{}).Error; err != nil {
			return err
		}
		if len(spans) > 0 {
			if err := tx.Create(&spans).Error; err != nil {
				return err
			}
		}
		if len(statuses) > 0 {
			if err := tx.Create(&statuses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
