package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddPantryItem    = "pantry item added successfully"
	MessageSuccessBulkAddPantry    = "pantry items added successfully"
	MessageSuccessGetPantryItems   = "pantry items retrieved successfully"
	MessageSuccessUpdatePantryItem = "pantry item updated successfully"
	MessageSuccessDeletePantryItem = "pantry item deleted successfully"
	MessageFailedAddPantryItem     = "failed to add pantry item"
	MessageFailedBulkAddPantry     = "failed to add pantry items"
	MessageFailedGetPantryItems    = "failed to retrieve pantry items"
	MessageFailedUpdatePantryItem  = "failed to update pantry item"
	MessageFailedDeletePantryItem  = "failed to delete pantry item"

	ErrPantryItemNotFound = errors.New("pantry item not found")
	ErrEmptyPantryName    = errors.New("pantry item name must not be empty")
)

type (
	AddPantryItemRequest struct {
		Name     string   `json:"name" validate:"required"`
		Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
		Unit     *string  `json:"unit,omitempty"`
	}

	BulkAddPantryRequest struct {
		Items []AddPantryItemRequest `json:"items" validate:"required,min=1,dive"`
	}

	UpdatePantryItemRequest struct {
		Name     *string  `json:"name,omitempty"`
		Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
		Unit     *string  `json:"unit,omitempty"`
	}

	PantryItemResponse struct {
		ID           string    `json:"id"`
		NameOriginal string    `json:"name_original"`
		NameNorm     string    `json:"name_norm"`
		Quantity     *float64  `json:"quantity,omitempty"`
		Unit         *string   `json:"unit,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}
)
