package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type productRepository struct {
	BaseRepository
}

func NewProductRepository(base BaseRepository) repository.ProductRepository {
	return &productRepository{base}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product, images []*model.ProductImage) error {
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO products (
				id, product_name, product_description, product_price, product_stock,
				product_featured_image, is_active, created_by, updated_by, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.ExecContext(ctx, query,
			product.ID,
			product.ProductName,
			product.ProductDescription,
			product.ProductPrice,
			product.ProductStock,
			product.ProductFeaturedImage,
			product.IsActive,
			product.CreatedBy,
			product.UpdatedBy,
			product.CreatedAt,
			product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}

		imgQuery := `
			INSERT INTO product_images (id, product_id, image_path, is_featured, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		`
		for _, img := range images {
			img.ID = uuid.New()
			img.ProductID = product.ID
			if _, err := tx.ExecContext(ctx, imgQuery,
				img.ID, img.ProductID, img.ImagePath, img.IsFeatured, img.CreatedBy); err != nil {
				return fmt.Errorf("failed to insert product image: %w", err)
			}
		}
		return nil
	})
}

func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT * FROM products WHERE id = $1`

	var product model.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, mapError(err, "product")
	}
	return &product, nil
}

func (r *productRepository) GetWithImages(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = images

	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products SET
			product_name = $1,
			product_description = $2,
			product_price = $3,
			product_stock = $4,
			product_featured_image = $5,
			is_active = $6,
			updated_by = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		product.ProductName,
		product.ProductDescription,
		product.ProductPrice,
		product.ProductStock,
		product.ProductFeaturedImage,
		product.IsActive,
		product.UpdatedBy,
		time.Now(),
		product.ID,
	)
	if err != nil {
		return mapError(err, "product")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("product not found"), "product")
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

func (r *productRepository) List(ctx context.Context, filters *model.ProductFilters) ([]*model.Product, int64, error) {
	base := r.Builder().From("products").Where(goqu.Ex{"is_active": 1})
	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			base = base.Where(goqu.Or(
				goqu.I("product_name").ILike(pattern),
				goqu.I("product_description").ILike(pattern),
			))
		}
		if filters.CreatedBy != nil {
			base = base.Where(goqu.Ex{"created_by": filters.CreatedBy.String()})
		}
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	p := model.Pagination{}
	if filters != nil {
		p = filters.Pagination
	}

	listSQL, listArgs, err := base.Select("*").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(p.PerPage)).
		Offset(uint(p.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	products := []*model.Product{}
	if err := r.db.SelectContext(ctx, &products, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) AddImage(ctx context.Context, image *model.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, image_path, is_featured, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`

	image.ID = uuid.New()
	_, err := r.db.ExecContext(ctx, query,
		image.ID, image.ProductID, image.ImagePath, image.IsFeatured, image.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert product image: %w", err)
	}
	return nil
}

func (r *productRepository) GetImage(ctx context.Context, id uuid.UUID) (*model.ProductImage, error) {
	query := `SELECT * FROM product_images WHERE id = $1`

	var image model.ProductImage
	if err := r.db.GetContext(ctx, &image, query, id); err != nil {
		return nil, mapError(err, "product image")
	}
	return &image, nil
}

func (r *productRepository) ListImages(ctx context.Context, productID uuid.UUID) ([]*model.ProductImage, error) {
	query := `SELECT * FROM product_images WHERE product_id = $1 ORDER BY created_at ASC`

	images := []*model.ProductImage{}
	if err := r.db.SelectContext(ctx, &images, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	return images, nil
}

func (r *productRepository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("product image not found"), "product image")
	}

	return nil
}

// OldestImage returns the earliest remaining image for a product, used to
// promote a new featured image after a delete. Returns nil when none remain.
func (r *productRepository) OldestImage(ctx context.Context, productID uuid.UUID, excludeID uuid.UUID) (*model.ProductImage, error) {
	query := `
		SELECT * FROM product_images
		WHERE product_id = $1 AND id != $2
		ORDER BY created_at ASC
		LIMIT 1
	`

	var image model.ProductImage
	err := r.db.GetContext(ctx, &image, query, productID, excludeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get oldest product image: %w", err)
	}
	return &image, nil
}

func (r *productRepository) SetFeaturedImage(ctx context.Context, productID uuid.UUID, path *string) error {
	query := `UPDATE products SET product_featured_image = $1, updated_at = NOW() WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, path, productID)
	if err != nil {
		return fmt.Errorf("failed to set featured image: %w", err)
	}
	return nil
}

func (r *productRepository) SetImageFeatured(ctx context.Context, imageID uuid.UUID, featured bool) error {
	query := `UPDATE product_images SET is_featured = $1, updated_at = NOW() WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, featured, imageID)
	if err != nil {
		return fmt.Errorf("failed to mark image featured: %w", err)
	}
	return nil
}
