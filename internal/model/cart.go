package model

import "github.com/google/uuid"

// CartItem is one medicine line in a user's cart. A user holds at most
// one line per medicine, quantities accumulate on repeated adds.
type CartItem struct {
	Base
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	MedicineID uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Quantity   int       `db:"quantity" json:"quantity"`
	UnitPrice  float64   `db:"unit_price" json:"unit_price"`
	TotalPrice float64   `db:"total_price" json:"total_price"`
	Medicine   *Medicine `db:"-" json:"medicine,omitempty"`
}

// Recalculate keeps total_price consistent with quantity and unit price.
func (c *CartItem) Recalculate() {
	c.TotalPrice = float64(c.Quantity) * c.UnitPrice
}

type AddToCartRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type CartSummary struct {
	Items       []*CartItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	ItemCount   int         `json:"item_count"`
	ItemsInCart int         `json:"items_in_cart"`
}
