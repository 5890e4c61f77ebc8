package handlers

import (
	"strconv"
	"strings"

	"recipenow-backend/domain"
	"recipenow-backend/internal/api/presenters"
	"recipenow-backend/pkg/matching"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MatchHandler interface {
		MatchRecipe(c *fiber.Ctx) error
		MatchAll(c *fiber.Ctx) error
		ShoppingList(c *fiber.Ctx) error
	}

	matchHandler struct {
		matchingService matching.MatchingService
		validator       *validator.Validate
	}
)

func NewMatchHandler(matchingService matching.MatchingService, validator *validator.Validate) MatchHandler {
	return &matchHandler{
		matchingService: matchingService,
		validator:       validator,
	}
}

func (h *matchHandler) MatchRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	res, err := h.matchingService.MatchRecipe(c.Context(), recipeID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedMatchRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMatchRecipe)
}

func (h *matchHandler) MatchAll(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	minMatch, err := strconv.ParseFloat(c.Query("min_match", "0"), 64)
	if err != nil || minMatch < 0 {
		minMatch = 0
	}
	query := domain.MatchAllQuery{
		MinMatch: minMatch,
		Status:   c.Query("status"),
	}

	if err := h.validator.Struct(&query); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMatchAll, err)
	}

	res, err := h.matchingService.MatchAll(c.Context(), userID, query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMatchAll, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMatchAll)
}

func (h *matchHandler) ShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ShoppingListRequest)

	// The body is optional; ids can arrive as ?recipe_ids=a,b instead.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}
	if len(req.RecipeIDs) == 0 {
		req.RecipeIDs = splitIDList(c.Query("recipe_ids"))
	}

	res, err := h.matchingService.ShoppingList(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessShoppingList)
}

func splitIDList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
