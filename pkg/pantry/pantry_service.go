package pantry

import (
	"context"
	"errors"
	"strings"

	"recipenow-backend/domain"
	"recipenow-backend/entities"
	"recipenow-backend/pkg/normalize"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PantryService interface {
		AddPantryItem(ctx context.Context, req domain.AddPantryItemRequest, userID string) (domain.PantryItemResponse, error)
		BulkAddPantryItems(ctx context.Context, req domain.BulkAddPantryRequest, userID string) ([]domain.PantryItemResponse, error)
		GetPantryItems(ctx context.Context, userID string) ([]domain.PantryItemResponse, error)
		UpdatePantryItem(ctx context.Context, id string, req domain.UpdatePantryItemRequest, userID string) (domain.PantryItemResponse, error)
		DeletePantryItem(ctx context.Context, id string, userID string) error
	}

	pantryService struct {
		pantryRepository PantryRepository
	}
)

func NewPantryService(pantryRepository PantryRepository) PantryService {
	return &pantryService{pantryRepository: pantryRepository}
}

func (s *pantryService) AddPantryItem(ctx context.Context, req domain.AddPantryItemRequest, userID string) (domain.PantryItemResponse, error) {
	item, err := buildPantryItem(req, userID)
	if err != nil {
		return domain.PantryItemResponse{}, err
	}
	if err := s.pantryRepository.CreatePantryItem(ctx, item); err != nil {
		return domain.PantryItemResponse{}, err
	}
	return toPantryItemResponse(item), nil
}

func (s *pantryService) BulkAddPantryItems(ctx context.Context, req domain.BulkAddPantryRequest, userID string) ([]domain.PantryItemResponse, error) {
	items := make([]*entities.PantryItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := buildPantryItem(itemReq, userID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := s.pantryRepository.CreatePantryItems(ctx, items); err != nil {
		return nil, err
	}

	responses := make([]domain.PantryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toPantryItemResponse(item))
	}
	return responses, nil
}

func (s *pantryService) GetPantryItems(ctx context.Context, userID string) ([]domain.PantryItemResponse, error) {
	items, err := s.pantryRepository.GetPantryItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.PantryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toPantryItemResponse(item))
	}
	return responses, nil
}

func (s *pantryService) UpdatePantryItem(ctx context.Context, id string, req domain.UpdatePantryItemRequest, userID string) (domain.PantryItemResponse, error) {
	item, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return domain.PantryItemResponse{}, err
	}

	if req.Name != nil {
		norm := normalize.Name(*req.Name)
		if norm == "" {
			return domain.PantryItemResponse{}, domain.ErrEmptyPantryName
		}
		item.NameOriginal = strings.TrimSpace(*req.Name)
		item.NameNorm = norm
	}
	if req.Quantity != nil {
		item.Quantity = req.Quantity
	}
	if req.Unit != nil {
		item.Unit = canonicalOrRaw(*req.Unit)
	}

	if err := s.pantryRepository.SavePantryItem(ctx, item); err != nil {
		return domain.PantryItemResponse{}, err
	}
	return toPantryItemResponse(item), nil
}

func (s *pantryService) DeletePantryItem(ctx context.Context, id string, userID string) error {
	item, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.pantryRepository.DeletePantryItem(ctx, item)
}

func (s *pantryService) ownedItem(ctx context.Context, id string, userID string) (*entities.PantryItem, error) {
	item, err := s.pantryRepository.GetPantryItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPantryItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return item, nil
}

func buildPantryItem(req domain.AddPantryItemRequest, userID string) (*entities.PantryItem, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	norm := normalize.Name(req.Name)
	if norm == "" {
		return nil, domain.ErrEmptyPantryName
	}

	item := &entities.PantryItem{
		ID:           uuid.New(),
		UserID:       userUUID,
		NameOriginal: strings.TrimSpace(req.Name),
		NameNorm:     norm,
		Quantity:     req.Quantity,
	}
	if req.Unit != nil {
		item.Unit = canonicalOrRaw(*req.Unit)
	}
	return item, nil
}

// canonicalOrRaw maps a unit onto its canonical form when known and keeps the
// user's wording otherwise, so "Tablespoons" and "tbsp" land on one key.
func canonicalOrRaw(unit string) *string {
	trimmed := strings.TrimSpace(unit)
	if trimmed == "" {
		return nil
	}
	if canonical, ok := normalize.CanonicalUnit(trimmed); ok {
		return &canonical
	}
	lower := strings.ToLower(trimmed)
	return &lower
}

func toPantryItemResponse(item *entities.PantryItem) domain.PantryItemResponse {
	return domain.PantryItemResponse{
		ID:           item.ID.String(),
		NameOriginal: item.NameOriginal,
		NameNorm:     item.NameNorm,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		CreatedAt:    item.CreatedAt,
	}
}
