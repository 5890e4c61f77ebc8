package handlers

import (
	"recipenow-backend/domain"
	"recipenow-backend/internal/api/presenters"
	"recipenow-backend/pkg/asset"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AssetHandler interface {
		UploadAsset(c *fiber.Ctx) error
		GetAssets(c *fiber.Ctx) error
		GetAssetDetails(c *fiber.Ctx) error
		IngestOCRLines(c *fiber.Ctx) error
		GetOCRLines(c *fiber.Ctx) error
		QueueExtraction(c *fiber.Ctx) error
	}

	assetHandler struct {
		assetService asset.AssetService
		validator    *validator.Validate
	}
)

func NewAssetHandler(assetService asset.AssetService, validator *validator.Validate) AssetHandler {
	return &assetHandler{
		assetService: assetService,
		validator:    validator,
	}
}

func (h *assetHandler) UploadAsset(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadAssetRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.File = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadAsset, err)
	}

	res, err := h.assetService.UploadAsset(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadAsset, err)
	}

	status := fiber.StatusCreated
	if res.Duplicate {
		status = fiber.StatusOK
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessUploadAsset)
}

func (h *assetHandler) GetAssets(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.assetService.GetAssets(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAsset, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetAsset)
}

func (h *assetHandler) GetAssetDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	assetID := c.Params("id")

	res, err := h.assetService.GetAssetByID(c.Context(), assetID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetAsset, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetAsset)
}

func (h *assetHandler) IngestOCRLines(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	assetID := c.Params("id")
	req := new(domain.IngestOCRLinesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIngestLines, err)
	}

	res, err := h.assetService.IngestOCRLines(c.Context(), assetID, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedIngestLines, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessIngestLines)
}

func (h *assetHandler) GetOCRLines(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	assetID := c.Params("id")

	res, err := h.assetService.GetOCRLines(c.Context(), assetID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetOCRLines, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetOCRLines)
}

func (h *assetHandler) QueueExtraction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	assetID := c.Params("id")

	res, err := h.assetService.QueueExtraction(c.Context(), assetID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedQueueExtract, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusAccepted, domain.MessageSuccessQueueExtract)
}
