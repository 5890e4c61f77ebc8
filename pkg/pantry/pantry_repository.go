package pantry

import (
	"context"

	"recipenow-backend/entities"

	"gorm.io/gorm"
)

type (
	PantryRepository interface {
		CreatePantryItem(ctx context.Context, item *entities.PantryItem) error
		CreatePantryItems(ctx context.Context, items []*entities.PantryItem) error
		GetPantryItemByID(ctx context.Context, id string) (*entities.PantryItem, error)
		GetPantryItems(ctx context.Context, userID string) ([]*entities.PantryItem, error)
		SavePantryItem(ctx context.Context, item *entities.PantryItem) error
		DeletePantryItem(ctx context.Context, item *entities.PantryItem) error
	}

	pantryRepository struct {
		db *gorm.DB
	}
)

func NewPantryRepository(db *gorm.DB) PantryRepository {
	return &pantryRepository{db: db}
}

func (r *pantryRepository) CreatePantryItem(ctx context.Context, item *entities.PantryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *pantryRepository) CreatePantryItems(ctx context.Context, items []*entities.PantryItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *pantryRepository) GetPantryItemByID(ctx context.Context, id string) (*entities.PantryItem, error) {
	var item entities.PantryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pantryRepository) GetPantryItems(ctx context.Context, userID string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name_norm asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pantryRepository) SavePantryItem(ctx context.Context, item *entities.PantryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *pantryRepository) DeletePantryItem(ctx context.Context, item *entities.PantryItem) error {
	return r.db.WithContext(ctx).Delete(item).Error
}
