package matching

import (
	"context"

	"recipenow-backend/entities"

	"gorm.io/gorm"
)

type (
	MatchingRepository interface {
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipesByUser(ctx context.Context, userID string, status string) ([]*entities.Recipe, error)
		GetRecipesByIDs(ctx context.Context, userID string, ids []string) ([]*entities.Recipe, error)
		GetPantryItems(ctx context.Context, userID string) ([]*entities.PantryItem, error)
	}

	matchingRepository struct {
		db *gorm.DB
	}
)

func NewMatchingRepository(db *gorm.DB) MatchingRepository {
	return &matchingRepository{db: db}
}

func (r *matchingRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *matchingRepository) GetRecipesByUser(ctx context.Context, userID string, status string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *matchingRepository) GetRecipesByIDs(ctx context.Context, userID string, ids []string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *matchingRepository) GetPantryItems(ctx context.Context, userID string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
