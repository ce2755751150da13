package product

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	"github.com/xyvra/marketplace-api/internal/storage"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

// Upload is one file from a multipart form, already opened.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Service struct {
	repo  repository.ProductRepository
	store storage.Store
}

func NewService(repo repository.ProductRepository, store storage.Store) *Service {
	return &Service{repo: repo, store: store}
}

// Create stores the product and its images. The first image becomes the
// featured one.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.SaveProductRequest, uploads []Upload) (*model.Product, error) {
	product := &model.Product{
		ProductName:        req.ProductName,
		ProductDescription: req.ProductDescription,
		ProductPrice:       req.ProductPrice,
		ProductStock:       req.ProductStock,
		IsActive:           1,
		CreatedBy:          userID,
		UpdatedBy:          userID,
	}

	images := make([]*model.ProductImage, 0, len(uploads))
	for i, upload := range uploads {
		key, err := s.store.Put(ctx, storage.PrefixProductImages, upload.Filename, upload.Body, upload.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		images = append(images, &model.ProductImage{
			ImagePath:  key,
			IsFeatured: i == 0,
			CreatedBy:  userID,
		})
		if i == 0 {
			product.ProductFeaturedImage = &key
		}
	}

	if err := s.repo.Create(ctx, product, images); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.repo.GetWithImages(ctx, product.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.GetWithImages(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.ProductFilters) ([]*model.Product, model.PageMeta, error) {
	filters.Normalize(15)

	products, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, model.PageMeta{}, err
	}

	for _, p := range products {
		images, err := s.repo.ListImages(ctx, p.ID)
		if err != nil {
			return nil, model.PageMeta{}, err
		}
		p.Images = images
	}

	return products, model.NewPageMeta(filters.Pagination, total), nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, filters *model.ProductFilters) ([]*model.Product, model.PageMeta, error) {
	filters.CreatedBy = &userID
	return s.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.ProductName != nil {
		product.ProductName = *req.ProductName
	}
	if req.ProductDescription != nil {
		product.ProductDescription = req.ProductDescription
	}
	if req.ProductPrice != nil {
		product.ProductPrice = *req.ProductPrice
	}
	if req.ProductStock != nil {
		product.ProductStock = *req.ProductStock
	}
	product.UpdatedBy = userID

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	images, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.store.Delete(ctx, img.ImagePath); err != nil {
			return fmt.Errorf("failed to delete product image: %w", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// AddImages appends images to an existing product. When the product has no
// featured image yet, the first new image is promoted.
func (s *Service) AddImages(ctx context.Context, userID, id uuid.UUID, uploads []Upload) (*model.Product, error) {
	product, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	for i, upload := range uploads {
		key, err := s.store.Put(ctx, storage.PrefixProductImages, upload.Filename, upload.Body, upload.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}

		featured := product.ProductFeaturedImage == nil && i == 0
		img := &model.ProductImage{
			ProductID:  id,
			ImagePath:  key,
			IsFeatured: featured,
			CreatedBy:  userID,
		}
		if err := s.repo.AddImage(ctx, img); err != nil {
			return nil, err
		}
		if featured {
			if err := s.repo.SetFeaturedImage(ctx, id, &key); err != nil {
				return nil, err
			}
			product.ProductFeaturedImage = &key
		}
	}

	return s.repo.GetWithImages(ctx, id)
}

// DeleteImage removes one image. When the featured image is removed the
// oldest remaining image is promoted, or the product's featured image is
// cleared when none remain.
func (s *Service) DeleteImage(ctx context.Context, userID, productID, imageID uuid.UUID) (*model.Product, error) {
	product, err := s.owned(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	image, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.ProductID != productID {
		return nil, apperr.BadRequest("image does not belong to this product", nil)
	}

	if err := s.store.Delete(ctx, image.ImagePath); err != nil {
		return nil, fmt.Errorf("failed to delete stored image: %w", err)
	}
	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return nil, err
	}

	wasFeatured := image.IsFeatured ||
		(product.ProductFeaturedImage != nil && *product.ProductFeaturedImage == image.ImagePath)
	if wasFeatured {
		oldest, err := s.repo.OldestImage(ctx, productID, imageID)
		if err != nil {
			return nil, err
		}
		if oldest != nil {
			if err := s.repo.SetImageFeatured(ctx, oldest.ID, true); err != nil {
				return nil, err
			}
			if err := s.repo.SetFeaturedImage(ctx, productID, &oldest.ImagePath); err != nil {
				return nil, err
			}
		} else {
			if err := s.repo.SetFeaturedImage(ctx, productID, nil); err != nil {
				return nil, err
			}
		}
	}

	return s.repo.GetWithImages(ctx, productID)
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(userID) {
		return nil, apperr.Forbidden("you do not own this product", nil)
	}
	return product, nil
}
