package model

import "github.com/google/uuid"

type Medicine struct {
	Base
	MedicineName         string      `db:"medicine_name" json:"medicine_name"`
	Slug                 string      `db:"slug" json:"slug"`
	MedicineNumber       string      `db:"medicine_number" json:"medicine_number"`
	Description          *string     `db:"description" json:"description,omitempty"`
	Manufacturer         *string     `db:"manufacturer" json:"manufacturer,omitempty"`
	Price                float64     `db:"price" json:"price"`
	Stock                int         `db:"stock" json:"stock"`
	Image                *string     `db:"image" json:"image,omitempty"`
	Conditions           StringArray `db:"conditions" json:"conditions"`
	CategoryID           *uuid.UUID  `db:"category_id" json:"category_id,omitempty"`
	SubcategoryID        *uuid.UUID  `db:"subcategory_id" json:"subcategory_id,omitempty"`
	RequiresPrescription bool        `db:"requires_prescription" json:"requires_prescription"`
	IsActive             int         `db:"is_active" json:"is_active"`
	CreatedBy            uuid.UUID   `db:"created_by" json:"created_by"`
}

// InStock reports whether qty units can be taken from stock.
func (m *Medicine) InStock(qty int) bool {
	return m.Stock >= qty
}

type MedicineCategory struct {
	Base
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description *string `db:"description" json:"description,omitempty"`
	Position    int     `db:"position" json:"position"`
}

type MedicineSubcategory struct {
	Base
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	Position    int       `db:"position" json:"position"`
}

type SaveMedicineRequest struct {
	MedicineName         string     `json:"medicine_name" binding:"required,max=255"`
	Slug                 string     `json:"slug" binding:"omitempty,max=255"`
	MedicineNumber       string     `json:"medicine_number" binding:"required,max=100"`
	Description          *string    `json:"description"`
	Manufacturer         *string    `json:"manufacturer" binding:"omitempty,max=255"`
	Price                float64    `json:"price" binding:"required,gt=0"`
	Stock                int        `json:"stock" binding:"gte=0"`
	Conditions           []string   `json:"conditions"`
	CategoryID           *uuid.UUID `json:"category_id"`
	SubcategoryID        *uuid.UUID `json:"subcategory_id"`
	RequiresPrescription bool       `json:"requires_prescription"`
}

type UpdateMedicineRequest struct {
	MedicineName         *string    `json:"medicine_name" binding:"omitempty,max=255"`
	Slug                 *string    `json:"slug" binding:"omitempty,max=255"`
	MedicineNumber       *string    `json:"medicine_number" binding:"omitempty,max=100"`
	Description          *string    `json:"description"`
	Manufacturer         *string    `json:"manufacturer" binding:"omitempty,max=255"`
	Price                *float64   `json:"price" binding:"omitempty,gt=0"`
	Stock                *int       `json:"stock" binding:"omitempty,gte=0"`
	Conditions           []string   `json:"conditions"`
	CategoryID           *uuid.UUID `json:"category_id"`
	SubcategoryID        *uuid.UUID `json:"subcategory_id"`
	RequiresPrescription *bool      `json:"requires_prescription"`
}

type MedicineFilters struct {
	Pagination
	Search               string     `form:"search"`
	Condition            string     `form:"condition"`
	Manufacturer         string     `form:"manufacturer"`
	MedicineNumber       string     `form:"medicine_number"`
	CategoryID           *uuid.UUID `form:"category_id"`
	SubcategoryID        *uuid.UUID `form:"subcategory_id"`
	MinPrice             *float64   `form:"min_price"`
	MaxPrice             *float64   `form:"max_price"`
	RequiresPrescription *bool      `form:"requires_prescription"`
	InStock              *bool      `form:"in_stock"`
}
