package model

import "github.com/google/uuid"

type Product struct {
	Base
	ProductName          string          `db:"product_name" json:"product_name"`
	ProductDescription   *string         `db:"product_description" json:"product_description,omitempty"`
	ProductPrice         float64         `db:"product_price" json:"product_price"`
	ProductStock         int             `db:"product_stock" json:"product_stock"`
	ProductFeaturedImage *string         `db:"product_featured_image" json:"product_featured_image,omitempty"`
	IsActive             int             `db:"is_active" json:"is_active"`
	CreatedBy            uuid.UUID       `db:"created_by" json:"created_by"`
	UpdatedBy            uuid.UUID       `db:"updated_by" json:"updated_by"`
	Images               []*ProductImage `db:"-" json:"images,omitempty"`
}

func (p *Product) IsOwnedBy(userID uuid.UUID) bool {
	return p.CreatedBy == userID
}

type ProductImage struct {
	Base
	ProductID  uuid.UUID `db:"product_id" json:"product_id"`
	ImagePath  string    `db:"image_path" json:"image_path"`
	IsFeatured bool      `db:"is_featured" json:"is_featured"`
	CreatedBy  uuid.UUID `db:"created_by" json:"created_by"`
}

type SaveProductRequest struct {
	ProductName        string  `form:"product_name" binding:"required,max=255"`
	ProductDescription *string `form:"product_description"`
	ProductPrice       float64 `form:"product_price" binding:"required,gt=0"`
	ProductStock       int     `form:"product_stock" binding:"gte=0"`
}

type UpdateProductRequest struct {
	ProductName        *string  `form:"product_name" binding:"omitempty,max=255"`
	ProductDescription *string  `form:"product_description"`
	ProductPrice       *float64 `form:"product_price" binding:"omitempty,gt=0"`
	ProductStock       *int     `form:"product_stock" binding:"omitempty,gte=0"`
}

type ProductFilters struct {
	Pagination
	Search    string     `form:"search"`
	CreatedBy *uuid.UUID `form:"-"`
}
