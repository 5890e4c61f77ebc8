package asset

import (
	"context"

	"recipenow-backend/entities"

	"gorm.io/gorm"
)

type (
	AssetRepository interface {
		CreateAsset(ctx context.Context, asset *entities.MediaAsset) error
		GetAssetByID(ctx context.Context, id string) (*entities.MediaAsset, error)
		GetAssets(ctx context.Context, userID string) ([]*entities.MediaAsset, error)
		FindAssetBySHA256(ctx context.Context, userID string, sha256 string) (*entities.MediaAsset, error)
		CreateOCRLines(ctx context.Context, lines []*entities.OCRLine) error
		GetOCRLines(ctx context.Context, assetID string) ([]*entities.OCRLine, error)
		CountOCRLines(ctx context.Context, assetID string) (int64, error)
	}

	assetRepository struct {
		db *gorm.DB
	}
)

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) CreateAsset(ctx context.Context, asset *entities.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *assetRepository) GetAssetByID(ctx context.Context, id string) (*entities.MediaAsset, error) {
	var asset entities.MediaAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) GetAssets(ctx context.Context, userID string) ([]*entities.MediaAsset, error) {
	var assets []*entities.MediaAsset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) FindAssetBySHA256(ctx context.Context, userID string, sha256 string) (*entities.MediaAsset, error) {
	var asset entities.MediaAsset
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND sha256 = ?", userID, sha256).
		First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) CreateOCRLines(ctx context.Context, lines []*entities.OCRLine) error {
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *assetRepository) GetOCRLines(ctx context.Context, assetID string) ([]*entities.OCRLine, error) {
	var lines []*entities.OCRLine
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("page asc, id asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *assetRepository) CountOCRLines(ctx context.Context, assetID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.OCRLine{}).
		Where("asset_id = ?", assetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
