package model

import "github.com/google/uuid"

// Document types accepted on upload
const (
	DocumentTypeID          = "id"
	DocumentTypeCertificate = "certificate"
)

type UserDocument struct {
	Base
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	DocumentType string    `db:"document_type" json:"document_type"`
	DocumentPath string    `db:"document_path" json:"document_path"`
	DocumentName string    `db:"document_name" json:"document_name"`
	IsActive     int       `db:"is_active" json:"is_active"`
	CreatedBy    uuid.UUID `db:"created_by" json:"created_by"`
	UpdatedBy    uuid.UUID `db:"updated_by" json:"updated_by"`
}
