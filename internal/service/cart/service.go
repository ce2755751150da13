package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type Service struct {
	cartRepo     repository.CartRepository
	medicineRepo repository.MedicineRepository
}

func NewService(cartRepo repository.CartRepository, medicineRepo repository.MedicineRepository) *Service {
	return &Service{cartRepo: cartRepo, medicineRepo: medicineRepo}
}

// AddToCart adds quantity to the user's line for the medicine, creating it
// on first add. The combined quantity must fit the current stock.
func (s *Service) AddToCart(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error) {
	medicine, err := s.medicineRepo.Get(ctx, req.MedicineID)
	if err != nil {
		return nil, err
	}

	requested := req.Quantity
	if existing, err := s.cartRepo.GetItem(ctx, userID, req.MedicineID); err == nil {
		requested += existing.Quantity
	}

	if !medicine.InStock(requested) {
		return nil, apperr.BadRequest(fmt.Sprintf("Insufficient stock. Available: %d", medicine.Stock), nil)
	}

	item := &model.CartItem{
		UserID:     userID,
		MedicineID: req.MedicineID,
		Quantity:   req.Quantity,
		UnitPrice:  medicine.Price,
	}
	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return nil, err
	}

	return s.cartRepo.GetItem(ctx, userID, req.MedicineID)
}

// GetCart returns the items plus totals.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartSummary, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &model.CartSummary{Items: items, ItemsInCart: len(items)}
	for _, item := range items {
		summary.TotalAmount += item.TotalPrice
		summary.ItemCount += item.Quantity
	}
	return summary, nil
}

// UpdateItem sets a line to an absolute quantity, rechecking stock. The
// unit price stays at the value snapshotted when the line was added; only
// the total is recomputed. A row owned by someone else reads as absent.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *model.UpdateCartItemRequest) (*model.CartItem, error) {
	item, err := s.cartRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, apperr.NotFound("cart item", nil)
	}

	medicine, err := s.medicineRepo.Get(ctx, item.MedicineID)
	if err != nil {
		return nil, err
	}
	if !medicine.InStock(req.Quantity) {
		return nil, apperr.BadRequest(fmt.Sprintf("Insufficient stock. Available: %d", medicine.Stock), nil)
	}

	item.Quantity = req.Quantity
	if err := s.cartRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, userID, itemID)
}

func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}
