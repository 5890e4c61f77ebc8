package pantry

import (
	"context"
	"testing"

	"recipenow-backend/domain"
	"recipenow-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePantryRepository struct {
	items map[string]*entities.PantryItem
}

func newFakePantryRepository() *fakePantryRepository {
	return &fakePantryRepository{items: make(map[string]*entities.PantryItem)}
}

func (f *fakePantryRepository) CreatePantryItem(_ context.Context, item *entities.PantryItem) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakePantryRepository) CreatePantryItems(_ context.Context, items []*entities.PantryItem) error {
	for _, item := range items {
		f.items[item.ID.String()] = item
	}
	return nil
}

func (f *fakePantryRepository) GetPantryItemByID(_ context.Context, id string) (*entities.PantryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakePantryRepository) GetPantryItems(_ context.Context, userID string) ([]*entities.PantryItem, error) {
	var out []*entities.PantryItem
	for _, item := range f.items {
		if item.UserID.String() == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakePantryRepository) SavePantryItem(_ context.Context, item *entities.PantryItem) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakePantryRepository) DeletePantryItem(_ context.Context, item *entities.PantryItem) error {
	delete(f.items, item.ID.String())
	return nil
}

func TestAddPantryItemNormalizesName(t *testing.T) {
	repo := newFakePantryRepository()
	service := NewPantryService(repo)
	userID := uuid.New()

	res, err := service.AddPantryItem(context.Background(), domain.AddPantryItemRequest{
		Name: "  Fresh Tomatoes ",
	}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, "Fresh Tomatoes", res.NameOriginal)
	assert.Equal(t, "tomato", res.NameNorm)
	assert.Nil(t, res.Quantity)
}

func TestAddPantryItemCanonicalizesUnit(t *testing.T) {
	repo := newFakePantryRepository()
	service := NewPantryService(repo)
	userID := uuid.New()

	qty := 2.0
	unit := "Tablespoons"
	res, err := service.AddPantryItem(context.Background(), domain.AddPantryItemRequest{
		Name:     "soy sauce",
		Quantity: &qty,
		Unit:     &unit,
	}, userID.String())
	require.NoError(t, err)

	require.NotNil(t, res.Unit)
	assert.Equal(t, "tbsp", *res.Unit)
}

func TestAddPantryItemRejectsEmptyName(t *testing.T) {
	repo := newFakePantryRepository()
	service := NewPantryService(repo)

	_, err := service.AddPantryItem(context.Background(), domain.AddPantryItemRequest{
		Name: "   ",
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrEmptyPantryName)
}

func TestBulkAddPantryItems(t *testing.T) {
	repo := newFakePantryRepository()
	service := NewPantryService(repo)
	userID := uuid.New()

	res, err := service.BulkAddPantryItems(context.Background(), domain.BulkAddPantryRequest{
		Items: []domain.AddPantryItemRequest{
			{Name: "onions"},
			{Name: "garlic cloves"},
			{Name: "olive oil"},
		},
	}, userID.String())
	require.NoError(t, err)
	require.Len(t, res, 3)

	norms := []string{res[0].NameNorm, res[1].NameNorm, res[2].NameNorm}
	assert.Equal(t, []string{"onion", "garlic clove", "olive oil"}, norms)
	assert.Len(t, repo.items, 3)
}

func TestUpdatePantryItemOwnership(t *testing.T) {
	repo := newFakePantryRepository()
	service := NewPantryService(repo)
	owner := uuid.New()

	item := &entities.PantryItem{
		ID:           uuid.New(),
		UserID:       owner,
		NameOriginal: "rice",
		NameNorm:     "rice",
	}
	repo.items[item.ID.String()] = item

	name := "basmati rice"
	_, err := service.UpdatePantryItem(context.Background(), item.ID.String(), domain.UpdatePantryItemRequest{
		Name: &name,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	res, err := service.UpdatePantryItem(context.Background(), item.ID.String(), domain.UpdatePantryItemRequest{
		Name: &name,
	}, owner.String())
	require.NoError(t, err)
	assert.Equal(t, "basmati rice", res.NameNorm)
}

func TestDeletePantryItem(t *testing.T) {
	repo := newFakePantryRepository()
	service := NewPantryService(repo)
	owner := uuid.New()

	item := &entities.PantryItem{ID: uuid.New(), UserID: owner, NameOriginal: "salt", NameNorm: "salt"}
	repo.items[item.ID.String()] = item

	require.NoError(t, service.DeletePantryItem(context.Background(), item.ID.String(), owner.String()))
	assert.Empty(t, repo.items)

	err := service.DeletePantryItem(context.Background(), item.ID.String(), owner.String())
	assert.ErrorIs(t, err, domain.ErrPantryItemNotFound)
}
