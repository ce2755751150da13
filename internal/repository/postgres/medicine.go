package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type medicineRepository struct {
	BaseRepository
}

func NewMedicineRepository(base BaseRepository) repository.MedicineRepository {
	return &medicineRepository{base}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, medicine_name, slug, medicine_number, description, manufacturer,
			price, stock, conditions, category_id, subcategory_id,
			requires_prescription, is_active, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	medicine.ID = uuid.New()
	medicine.CreatedAt = time.Now()
	medicine.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		medicine.ID,
		medicine.MedicineName,
		medicine.Slug,
		medicine.MedicineNumber,
		medicine.Description,
		medicine.Manufacturer,
		medicine.Price,
		medicine.Stock,
		medicine.Conditions,
		medicine.CategoryID,
		medicine.SubcategoryID,
		medicine.RequiresPrescription,
		medicine.IsActive,
		medicine.CreatedBy,
		medicine.CreatedAt,
		medicine.UpdatedAt,
	)
	return mapError(err, "medicine")
}

func (r *medicineRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	query := `SELECT * FROM medicines WHERE id = $1`

	var medicine model.Medicine
	if err := r.db.GetContext(ctx, &medicine, query, id); err != nil {
		return nil, mapError(err, "medicine")
	}
	return &medicine, nil
}

func (r *medicineRepository) Update(ctx context.Context, medicine *model.Medicine) error {
	query := `
		UPDATE medicines SET
			medicine_name = $1,
			slug = $2,
			medicine_number = $3,
			description = $4,
			manufacturer = $5,
			price = $6,
			stock = $7,
			conditions = $8,
			category_id = $9,
			subcategory_id = $10,
			requires_prescription = $11,
			is_active = $12,
			updated_at = $13
		WHERE id = $14
	`

	result, err := r.db.ExecContext(ctx, query,
		medicine.MedicineName,
		medicine.Slug,
		medicine.MedicineNumber,
		medicine.Description,
		medicine.Manufacturer,
		medicine.Price,
		medicine.Stock,
		medicine.Conditions,
		medicine.CategoryID,
		medicine.SubcategoryID,
		medicine.RequiresPrescription,
		medicine.IsActive,
		time.Now(),
		medicine.ID,
	)
	if err != nil {
		return mapError(err, "medicine")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("medicine not found"), "medicine")
	}

	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("medicine not found"), "medicine")
	}

	return nil
}

func (r *medicineRepository) List(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, int64, error) {
	base := r.Builder().From("medicines").Where(goqu.Ex{"is_active": 1})
	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			base = base.Where(goqu.Or(
				goqu.I("medicine_name").ILike(pattern),
				goqu.I("description").ILike(pattern),
				goqu.I("manufacturer").ILike(pattern),
				goqu.I("medicine_number").ILike(pattern),
			))
		}
		if filters.Condition != "" {
			base = base.Where(goqu.L("conditions @> ?::jsonb", fmt.Sprintf(`["%s"]`, filters.Condition)))
		}
		if filters.Manufacturer != "" {
			base = base.Where(goqu.I("manufacturer").ILike("%" + filters.Manufacturer + "%"))
		}
		if filters.MedicineNumber != "" {
			base = base.Where(goqu.Ex{"medicine_number": filters.MedicineNumber})
		}
		if filters.CategoryID != nil {
			base = base.Where(goqu.Ex{"category_id": filters.CategoryID.String()})
		}
		if filters.SubcategoryID != nil {
			base = base.Where(goqu.Ex{"subcategory_id": filters.SubcategoryID.String()})
		}
		if filters.MinPrice != nil {
			base = base.Where(goqu.I("price").Gte(*filters.MinPrice))
		}
		if filters.MaxPrice != nil {
			base = base.Where(goqu.I("price").Lte(*filters.MaxPrice))
		}
		if filters.RequiresPrescription != nil {
			base = base.Where(goqu.Ex{"requires_prescription": *filters.RequiresPrescription})
		}
		if filters.InStock != nil {
			if *filters.InStock {
				base = base.Where(goqu.I("stock").Gt(0))
			} else {
				base = base.Where(goqu.Ex{"stock": 0})
			}
		}
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	p := model.Pagination{}
	if filters != nil {
		p = filters.Pagination
	}

	listSQL, listArgs, err := base.Select("*").
		Order(goqu.I("medicine_name").Asc()).
		Limit(uint(p.PerPage)).
		Offset(uint(p.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	medicines := []*model.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list medicines: %w", err)
	}

	return medicines, total, nil
}

func (r *medicineRepository) ListCategories(ctx context.Context) ([]*model.MedicineCategory, error) {
	query := `SELECT * FROM medicine_categories ORDER BY position, name`

	categories := []*model.MedicineCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list medicine categories: %w", err)
	}
	return categories, nil
}

func (r *medicineRepository) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*model.MedicineSubcategory, error) {
	query := `SELECT * FROM medicine_subcategories WHERE category_id = $1 ORDER BY position, name`

	subs := []*model.MedicineSubcategory{}
	if err := r.db.SelectContext(ctx, &subs, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to list medicine subcategories: %w", err)
	}
	return subs, nil
}

func (r *medicineRepository) SetImage(ctx context.Context, id uuid.UUID, path string) error {
	query := `UPDATE medicines SET image = $1, updated_at = NOW() WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("failed to update medicine image: %w", err)
	}
	return nil
}
