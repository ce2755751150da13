package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type documentRepository struct {
	BaseRepository
}

func NewDocumentRepository(base BaseRepository) repository.DocumentRepository {
	return &documentRepository{base}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.UserDocument) error {
	query := `
		INSERT INTO user_documents (
			id, user_id, document_type, document_path, document_name,
			is_active, created_by, updated_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.DocumentType,
		doc.DocumentPath,
		doc.DocumentName,
		doc.IsActive,
		doc.CreatedBy,
		doc.UpdatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return mapError(err, "document")
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*model.UserDocument, error) {
	query := `SELECT * FROM user_documents WHERE id = $1`

	var doc model.UserDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, mapError(err, "document")
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID, documentType string) ([]*model.UserDocument, error) {
	query := `SELECT * FROM user_documents WHERE user_id = $1 AND is_active = 1`
	args := []interface{}{userID}
	if documentType != "" {
		query += ` AND document_type = $2`
		args = append(args, documentType)
	}
	query += ` ORDER BY created_at DESC`

	docs := []*model.UserDocument{}
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("document not found"), "document")
	}

	return nil
}
