package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type cartRepository struct {
	BaseRepository
}

func NewCartRepository(base BaseRepository) repository.CartRepository {
	return &cartRepository{base}
}

func (r *cartRepository) GetItem(ctx context.Context, userID, medicineID uuid.UUID) (*model.CartItem, error) {
	query := `SELECT * FROM shopping_cart WHERE user_id = $1 AND medicine_id = $2`

	var item model.CartItem
	if err := r.db.GetContext(ctx, &item, query, userID, medicineID); err != nil {
		return nil, mapError(err, "cart item")
	}
	return &item, nil
}

func (r *cartRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*model.CartItem, error) {
	query := `SELECT * FROM shopping_cart WHERE id = $1`

	var item model.CartItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, mapError(err, "cart item")
	}
	return &item, nil
}

// Upsert inserts the line or accumulates quantity onto the existing one.
// The unique key is (user_id, medicine_id).
func (r *cartRepository) Upsert(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO shopping_cart (
			id, user_id, medicine_id, quantity, unit_price, total_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, medicine_id) DO UPDATE
		SET quantity = shopping_cart.quantity + EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price,
			total_price = (shopping_cart.quantity + EXCLUDED.quantity) * EXCLUDED.unit_price,
			updated_at = NOW()
	`

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	item.Recalculate()

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.MedicineID,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) Update(ctx context.Context, item *model.CartItem) error {
	item.Recalculate()

	query := `
		UPDATE shopping_cart SET
			quantity = $1,
			unit_price = $2,
			total_price = $3,
			updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
		time.Now(),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("cart item not found"), "cart item")
	}

	return nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.CartItem, error) {
	query := `SELECT * FROM shopping_cart WHERE user_id = $1 ORDER BY created_at DESC`

	items := []*model.CartItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	for _, item := range items {
		var medicine model.Medicine
		if err := r.db.GetContext(ctx, &medicine, `SELECT * FROM medicines WHERE id = $1`, item.MedicineID); err == nil {
			item.Medicine = &medicine
		}
	}

	return items, nil
}

func (r *cartRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_cart WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("cart item not found"), "cart item")
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shopping_cart WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
