package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"recipenow-backend/domain"
	"recipenow-backend/entities"
	"recipenow-backend/internal/utils/storage"
	"recipenow-backend/pkg/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	AssetService interface {
		UploadAsset(ctx context.Context, req domain.UploadAssetRequest, userID string) (domain.UploadAssetResponse, error)
		GetAssetByID(ctx context.Context, id string, userID string) (domain.AssetResponse, error)
		GetAssets(ctx context.Context, userID string) ([]domain.AssetResponse, error)
		IngestOCRLines(ctx context.Context, assetID string, req domain.IngestOCRLinesRequest, userID string) ([]domain.OCRLineResponse, error)
		GetOCRLines(ctx context.Context, assetID string, userID string) ([]domain.OCRLineResponse, error)
		QueueExtraction(ctx context.Context, assetID string, userID string) (domain.QueueExtractionResponse, error)
	}

	assetService struct {
		assetRepository AssetRepository
		s3              storage.AwsS3
		queue           worker.Queue
		log             *zap.Logger
	}
)

func NewAssetService(assetRepository AssetRepository, s3 storage.AwsS3, queue worker.Queue, log *zap.Logger) AssetService {
	return &assetService{
		assetRepository: assetRepository,
		s3:              s3,
		queue:           queue,
		log:             log,
	}
}

// UploadAsset stores the file and registers the asset. The same bytes
// uploaded twice by one user resolve to the existing asset instead of a new
// row and a second extraction.
func (s *assetService) UploadAsset(ctx context.Context, req domain.UploadAssetRequest, userID string) (domain.UploadAssetResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UploadAssetResponse{}, domain.ErrParseUUID
	}
	if req.Type != entities.AssetTypeImage && req.Type != entities.AssetTypePDF {
		return domain.UploadAssetResponse{}, domain.ErrInvalidAssetType
	}
	if filepath.Ext(req.File.Filename) != "" && !storage.ExtAllowed(req.File.Filename, storage.AllowMedia) {
		return domain.UploadAssetResponse{}, domain.ErrInvalidAssetType
	}

	file, err := req.File.Open()
	if err != nil {
		return domain.UploadAssetResponse{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.UploadAssetResponse{}, err
	}
	if len(data) == 0 {
		return domain.UploadAssetResponse{}, domain.ErrEmptyUpload
	}

	digest := sha256.Sum256(data)
	hash := hex.EncodeToString(digest[:])

	existing, err := s.assetRepository.FindAssetBySHA256(ctx, userID, hash)
	if err == nil {
		s.log.Info("duplicate asset upload resolved to existing asset",
			zap.String("asset_id", existing.ID.String()),
			zap.String("sha256", hash))
		return s.toUploadResponse(existing, true), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UploadAssetResponse{}, err
	}

	objectKey := fmt.Sprintf("assets/%s/%s%s", userID, hash, uploadExt(req))
	if _, err := s.s3.UploadBytes(objectKey, data, req.File.Header.Get("Content-Type")); err != nil {
		return domain.UploadAssetResponse{}, err
	}

	asset := &entities.MediaAsset{
		ID:          uuid.New(),
		UserID:      userUUID,
		Type:        req.Type,
		SHA256:      hash,
		StoragePath: objectKey,
		SourceLabel: strings.TrimSpace(req.SourceLabel),
		OCRStatus:   entities.OCRStatusPending,
	}
	if err := s.assetRepository.CreateAsset(ctx, asset); err != nil {
		return domain.UploadAssetResponse{}, err
	}

	s.log.Info("asset uploaded",
		zap.String("asset_id", asset.ID.String()),
		zap.String("type", asset.Type),
		zap.Int("bytes", len(data)))
	return s.toUploadResponse(asset, false), nil
}

func (s *assetService) GetAssetByID(ctx context.Context, id string, userID string) (domain.AssetResponse, error) {
	asset, err := s.ownedAsset(ctx, id, userID)
	if err != nil {
		return domain.AssetResponse{}, err
	}

	count, err := s.assetRepository.CountOCRLines(ctx, asset.ID.String())
	if err != nil {
		return domain.AssetResponse{}, err
	}
	return s.toAssetResponse(asset, count), nil
}

func (s *assetService) GetAssets(ctx context.Context, userID string) ([]domain.AssetResponse, error) {
	assets, err := s.assetRepository.GetAssets(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		count, err := s.assetRepository.CountOCRLines(ctx, asset.ID.String())
		if err != nil {
			return nil, err
		}
		responses = append(responses, s.toAssetResponse(asset, count))
	}
	return responses, nil
}

// IngestOCRLines records the OCR output for an asset. Lines are immutable
// once written; the extraction job reads them in (page, id) order.
func (s *assetService) IngestOCRLines(ctx context.Context, assetID string, req domain.IngestOCRLinesRequest, userID string) ([]domain.OCRLineResponse, error) {
	asset, err := s.ownedAsset(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.OCRLine, 0, len(req.Lines))
	for _, lineReq := range req.Lines {
		lines = append(lines, &entities.OCRLine{
			ID:         uuid.New(),
			AssetID:    asset.ID,
			Page:       lineReq.Page,
			Text:       lineReq.Text,
			BBox:       datatypes.NewJSONSlice(lineReq.BBox),
			Confidence: lineReq.Confidence,
		})
	}
	if err := s.assetRepository.CreateOCRLines(ctx, lines); err != nil {
		return nil, err
	}

	s.log.Info("ocr lines ingested",
		zap.String("asset_id", asset.ID.String()),
		zap.Int("lines", len(lines)))
	return toOCRLineResponses(lines), nil
}

func (s *assetService) GetOCRLines(ctx context.Context, assetID string, userID string) ([]domain.OCRLineResponse, error) {
	asset, err := s.ownedAsset(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.assetRepository.GetOCRLines(ctx, asset.ID.String())
	if err != nil {
		return nil, err
	}
	return toOCRLineResponses(lines), nil
}

// QueueExtraction enqueues an extraction job for the asset. Queued is false
// when a job for the asset is already in flight.
func (s *assetService) QueueExtraction(ctx context.Context, assetID string, userID string) (domain.QueueExtractionResponse, error) {
	asset, err := s.ownedAsset(ctx, assetID, userID)
	if err != nil {
		return domain.QueueExtractionResponse{}, err
	}

	count, err := s.assetRepository.CountOCRLines(ctx, asset.ID.String())
	if err != nil {
		return domain.QueueExtractionResponse{}, err
	}
	if count == 0 {
		return domain.QueueExtractionResponse{}, domain.ErrAssetHasNoLines
	}

	queued, err := s.queue.EnqueueExtraction(ctx, worker.ExtractionJob{AssetID: asset.ID.String()})
	if err != nil {
		return domain.QueueExtractionResponse{}, err
	}

	s.log.Info("extraction queue request",
		zap.String("asset_id", asset.ID.String()),
		zap.Bool("queued", queued))
	return domain.QueueExtractionResponse{
		AssetID: asset.ID.String(),
		Queued:  queued,
	}, nil
}

func (s *assetService) ownedAsset(ctx context.Context, id string, userID string) (*entities.MediaAsset, error) {
	asset, err := s.assetRepository.GetAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	if asset.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return asset, nil
}

func uploadExt(req domain.UploadAssetRequest) string {
	ext := strings.ToLower(filepath.Ext(req.File.Filename))
	if ext != "" {
		return ext
	}
	if req.Type == entities.AssetTypePDF {
		return ".pdf"
	}
	return ".jpg"
}

func (s *assetService) toUploadResponse(asset *entities.MediaAsset, duplicate bool) domain.UploadAssetResponse {
	return domain.UploadAssetResponse{
		ID:          asset.ID.String(),
		Type:        asset.Type,
		SHA256:      asset.SHA256,
		StoragePath: asset.StoragePath,
		MediaURL:    s.s3.GetPublicLinkKey(asset.StoragePath),
		OCRStatus:   asset.OCRStatus,
		Duplicate:   duplicate,
	}
}

func (s *assetService) toAssetResponse(asset *entities.MediaAsset, lineCount int64) domain.AssetResponse {
	return domain.AssetResponse{
		ID:          asset.ID.String(),
		Type:        asset.Type,
		SHA256:      asset.SHA256,
		StoragePath: asset.StoragePath,
		MediaURL:    s.s3.GetPublicLinkKey(asset.StoragePath),
		SourceLabel: asset.SourceLabel,
		OCRStatus:   asset.OCRStatus,
		LineCount:   lineCount,
		CreatedAt:   asset.CreatedAt,
	}
}

func toOCRLineResponses(lines []*entities.OCRLine) []domain.OCRLineResponse {
	responses := make([]domain.OCRLineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, domain.OCRLineResponse{
			ID:         line.ID.String(),
			Page:       line.Page,
			Text:       line.Text,
			BBox:       line.BBox,
			Confidence: line.Confidence,
		})
	}
	return responses
}
