package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessUploadAsset  = "asset uploaded successfully"
	MessageSuccessGetAsset     = "asset retrieved successfully"
	MessageSuccessGetOCRLines  = "ocr lines retrieved successfully"
	MessageSuccessIngestLines  = "ocr lines ingested successfully"
	MessageSuccessQueueExtract = "extraction queued successfully"
	MessageFailedUploadAsset   = "failed to upload asset"
	MessageFailedGetAsset      = "failed to retrieve asset"
	MessageFailedGetOCRLines   = "failed to retrieve ocr lines"
	MessageFailedIngestLines   = "failed to ingest ocr lines"
	MessageFailedQueueExtract  = "failed to queue extraction"

	ErrAssetNotFound    = errors.New("asset not found")
	ErrInvalidAssetType = errors.New("asset type must be image or pdf")
	ErrAssetHasNoLines  = errors.New("asset has no ocr lines")
	ErrEmptyUpload      = errors.New("uploaded file is empty")
)

type (
	UploadAssetRequest struct {
		File        *multipart.FileHeader `form:"file" validate:"required"`
		Type        string                `form:"type" validate:"required,oneof=image pdf"`
		SourceLabel string                `form:"source_label"`
	}

	UploadAssetResponse struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		SHA256      string `json:"sha256"`
		StoragePath string `json:"storage_path"`
		MediaURL    string `json:"media_url"`
		OCRStatus   string `json:"ocr_status"`
		Duplicate   bool   `json:"duplicate"`
	}

	AssetResponse struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		SHA256      string    `json:"sha256"`
		StoragePath string    `json:"storage_path"`
		MediaURL    string    `json:"media_url"`
		SourceLabel string    `json:"source_label,omitempty"`
		OCRStatus   string    `json:"ocr_status"`
		LineCount   int64     `json:"line_count"`
		CreatedAt   time.Time `json:"created_at"`
	}

	OCRLineRequest struct {
		Page       int       `json:"page" validate:"min=0"`
		Text       string    `json:"text" validate:"required"`
		BBox       []float64 `json:"bbox" validate:"required,len=4"`
		Confidence float64   `json:"confidence" validate:"min=0,max=1"`
	}

	IngestOCRLinesRequest struct {
		Lines []OCRLineRequest `json:"lines" validate:"required,min=1,dive"`
	}

	OCRLineResponse struct {
		ID         string    `json:"id"`
		Page       int       `json:"page"`
		Text       string    `json:"text"`
		BBox       []float64 `json:"bbox"`
		Confidence float64   `json:"confidence"`
	}

	QueueExtractionResponse struct {
		AssetID  string `json:"asset_id"`
		RecipeID string `json:"recipe_id"`
		Queued   bool   `json:"queued"`
	}
)
