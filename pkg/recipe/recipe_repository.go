package recipe

import (
	"context"

	"recipenow-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, userID string, status, tag, query string, page, limit int) ([]*entities.Recipe, int64, error)
		SaveRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, recipe *entities.Recipe) error

		GetSourceSpans(ctx context.Context, recipeID string, fieldPrefix string) ([]*entities.SourceSpan, error)
		GetFieldStatuses(ctx context.Context, recipeID string) ([]*entities.FieldStatus, error)
		UpsertFieldStatus(ctx context.Context, status *entities.FieldStatus) error
		DeleteFieldStatusesByPrefix(ctx context.Context, recipeID uuid.UUID, prefix string) error
		PromoteExtractedStatuses(ctx context.Context, recipeID uuid.UUID) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, userID string, status, tag, query string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "all" && status != "" {
		q = q.Where("status = ?", status)
	}
	if tag != "" {
		q = q.Where("tags @> ?", `["`+tag+`"]`)
	}
	if query != "" {
		q = q.Where("title ILIKE ?", "%"+query+"%")
	}

	if err := q.Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Offset(offset).Limit(limit).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (r *recipeRepository) SaveRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// DeleteRecipe soft-deletes the recipe and removes its provenance rows in
// the same transaction.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.SourceSpan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.FieldStatus{}).Error; err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func (r *recipeRepository) GetSourceSpans(ctx context.Context, recipeID string, fieldPrefix string) ([]*entities.SourceSpan, error) {
	var spans []*entities.SourceSpan

	q := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID)
	if fieldPrefix != "" {
		q = q.Where("field_path LIKE ?", fieldPrefix+"%")
	}
	if err := q.Order("field_path asc, created_at asc").Find(&spans).Error; err != nil {
		return nil, err
	}
	return spans, nil
}

func (r *recipeRepository) GetFieldStatuses(ctx context.Context, recipeID string) ([]*entities.FieldStatus, error) {
	var statuses []*entities.FieldStatus
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("field_path asc").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// UpsertFieldStatus keeps the one-row-per-(recipe, field_path) invariant.
func (r *recipeRepository) UpsertFieldStatus(ctx context.Context, status *entities.FieldStatus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "field_path"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes"}),
	}).Create(status).Error
}

func (r *recipeRepository) DeleteFieldStatusesByPrefix(ctx context.Context, recipeID uuid.UUID, prefix string) error {
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND field_path LIKE ?", recipeID, prefix+"%").
		Delete(&entities.FieldStatus{}).Error
}

func (r *recipeRepository) PromoteExtractedStatuses(ctx context.Context, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entities.FieldStatus{}).
		Where("recipe_id = ? AND status = ?", recipeID, entities.FieldStatusExtracted).
		Updates(map[string]interface{}{"status": entities.FieldStatusVerified}).Error
}
