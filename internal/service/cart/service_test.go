package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type fakeCartRepo struct {
	items map[uuid.UUID]*model.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]*model.CartItem)}
}

func (r *fakeCartRepo) GetItem(_ context.Context, userID, medicineID uuid.UUID) (*model.CartItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.MedicineID == medicineID {
			return item, nil
		}
	}
	return nil, apperr.NotFound("cart item", nil)
}

func (r *fakeCartRepo) GetItemByID(_ context.Context, id uuid.UUID) (*model.CartItem, error) {
	if item, ok := r.items[id]; ok {
		return item, nil
	}
	return nil, apperr.NotFound("cart item", nil)
}

func (r *fakeCartRepo) Upsert(_ context.Context, item *model.CartItem) error {
	for _, existing := range r.items {
		if existing.UserID == item.UserID && existing.MedicineID == item.MedicineID {
			existing.Quantity += item.Quantity
			existing.UnitPrice = item.UnitPrice
			existing.Recalculate()
			return nil
		}
	}
	item.ID = uuid.New()
	item.Recalculate()
	r.items[item.ID] = item
	return nil
}

func (r *fakeCartRepo) Update(_ context.Context, item *model.CartItem) error {
	item.Recalculate()
	r.items[item.ID] = item
	return nil
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.CartItem, error) {
	var out []*model.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) Delete(_ context.Context, userID, itemID uuid.UUID) error {
	if item, ok := r.items[itemID]; ok && item.UserID == userID {
		delete(r.items, itemID)
	}
	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeMedicineRepo struct {
	medicines map[uuid.UUID]*model.Medicine
}

func (r *fakeMedicineRepo) Get(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	if m, ok := r.medicines[id]; ok {
		return m, nil
	}
	return nil, apperr.NotFound("medicine", nil)
}

func (r *fakeMedicineRepo) Create(_ context.Context, _ *model.Medicine) error { return nil }
func (r *fakeMedicineRepo) Update(_ context.Context, _ *model.Medicine) error { return nil }
func (r *fakeMedicineRepo) Delete(_ context.Context, _ uuid.UUID) error       { return nil }
func (r *fakeMedicineRepo) List(_ context.Context, _ *model.MedicineFilters) ([]*model.Medicine, int64, error) {
	return nil, 0, nil
}
func (r *fakeMedicineRepo) ListCategories(_ context.Context) ([]*model.MedicineCategory, error) {
	return nil, nil
}
func (r *fakeMedicineRepo) ListSubcategories(_ context.Context, _ uuid.UUID) ([]*model.MedicineSubcategory, error) {
	return nil, nil
}
func (r *fakeMedicineRepo) SetImage(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func newTestService(medicines ...*model.Medicine) (*Service, *fakeCartRepo) {
	medRepo := &fakeMedicineRepo{medicines: make(map[uuid.UUID]*model.Medicine)}
	for _, m := range medicines {
		medRepo.medicines[m.ID] = m
	}
	cartRepo := newFakeCartRepo()
	return NewService(cartRepo, medRepo), cartRepo
}

func testMedicine(price float64, stock int) *model.Medicine {
	return &model.Medicine{
		Base:         model.Base{ID: uuid.New()},
		MedicineName: "Paracetamol 500mg",
		Price:        price,
		Stock:        stock,
	}
}

func TestAddToCartAccumulatesQuantity(t *testing.T) {
	medicine := testMedicine(9.50, 10)
	svc, _ := newTestService(medicine)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 19.0, first.TotalPrice)

	second, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 47.5, second.TotalPrice)
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	medicine := testMedicine(5.00, 4)
	svc, _ := newTestService(medicine)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrBadRequest, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "Insufficient stock. Available: 4")
}

func TestGetCartTotals(t *testing.T) {
	m1 := testMedicine(10.00, 50)
	m2 := testMedicine(2.50, 50)
	svc, _ := newTestService(m1, m2)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: m1.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: m2.ID, Quantity: 4})
	require.NoError(t, err)

	summary, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemsInCart)
	assert.Equal(t, 6, summary.ItemCount)
	assert.Equal(t, 30.0, summary.TotalAmount)
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	medicine := testMedicine(8.00, 20)
	svc, _ := newTestService(medicine)
	userID := uuid.New()
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 5})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, userID, item.ID, &model.UpdateCartItemRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, 16.0, updated.TotalPrice)
}

func TestUpdateItemKeepsUnitPriceSnapshot(t *testing.T) {
	medicine := testMedicine(8.00, 20)
	svc, _ := newTestService(medicine)
	userID := uuid.New()
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 1})
	require.NoError(t, err)

	medicine.Price = 12.00
	updated, err := svc.UpdateItem(ctx, userID, item.ID, &model.UpdateCartItemRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 8.0, updated.UnitPrice)
	assert.Equal(t, 16.0, updated.TotalPrice)
}

func TestUpdateItemForeignOwnerReadsAsAbsent(t *testing.T) {
	medicine := testMedicine(8.00, 20)
	svc, _ := newTestService(medicine)
	owner := uuid.New()
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, owner, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, uuid.New(), item.ID, &model.UpdateCartItemRequest{Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrNotFound, apperr.CodeOf(err))
}

func TestClearCart(t *testing.T) {
	medicine := testMedicine(3.00, 30)
	svc, _ := newTestService(medicine)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, userID, &model.AddToCartRequest{MedicineID: medicine.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, userID))

	summary, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Zero(t, summary.TotalAmount)
}
