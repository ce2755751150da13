package medicine

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	"github.com/xyvra/marketplace-api/internal/storage"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type Service struct {
	repo  repository.MedicineRepository
	store storage.Store
}

func NewService(repo repository.MedicineRepository, store storage.Store) *Service {
	return &Service{repo: repo, store: store}
}

// Create stores a medicine. The slug is derived from the name when the
// request leaves it empty; the medicine number must be unique.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.SaveMedicineRequest) (*model.Medicine, error) {
	medicine := &model.Medicine{
		MedicineName:         req.MedicineName,
		Slug:                 req.Slug,
		MedicineNumber:       req.MedicineNumber,
		Description:          req.Description,
		Manufacturer:         req.Manufacturer,
		Price:                req.Price,
		Stock:                req.Stock,
		Conditions:           model.StringArray(req.Conditions),
		CategoryID:           req.CategoryID,
		SubcategoryID:        req.SubcategoryID,
		RequiresPrescription: req.RequiresPrescription,
		IsActive:             1,
		CreatedBy:            userID,
	}
	if medicine.Slug == "" {
		medicine.Slug = slug.Make(medicine.MedicineName)
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}
	return medicine, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, model.PageMeta, error) {
	filters.Normalize(15)

	medicines, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	return medicines, model.NewPageMeta(filters.Pagination, total), nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateMedicineRequest) (*model.Medicine, error) {
	medicine, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.MedicineName != nil {
		medicine.MedicineName = *req.MedicineName
	}
	if req.Slug != nil {
		medicine.Slug = *req.Slug
	}
	if req.MedicineNumber != nil {
		medicine.MedicineNumber = *req.MedicineNumber
	}
	if req.Description != nil {
		medicine.Description = req.Description
	}
	if req.Manufacturer != nil {
		medicine.Manufacturer = req.Manufacturer
	}
	if req.Price != nil {
		medicine.Price = *req.Price
	}
	if req.Stock != nil {
		medicine.Stock = *req.Stock
	}
	if req.Conditions != nil {
		medicine.Conditions = model.StringArray(req.Conditions)
	}
	if req.CategoryID != nil {
		medicine.CategoryID = req.CategoryID
	}
	if req.SubcategoryID != nil {
		medicine.SubcategoryID = req.SubcategoryID
	}
	if req.RequiresPrescription != nil {
		medicine.RequiresPrescription = *req.RequiresPrescription
	}
	if medicine.Slug == "" {
		medicine.Slug = slug.Make(medicine.MedicineName)
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	medicine, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if medicine.Image != nil {
		if err := s.store.Delete(ctx, *medicine.Image); err != nil {
			return fmt.Errorf("failed to delete medicine image: %w", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) UpdateImage(ctx context.Context, userID, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Medicine, error) {
	medicine, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	if medicine.Image != nil {
		oldKey = *medicine.Image
	}

	key, err := s.store.Replace(ctx, oldKey, storage.PrefixMedicineImages, filename, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store medicine image: %w", err)
	}

	if err := s.repo.SetImage(ctx, id, key); err != nil {
		return nil, err
	}

	medicine.Image = &key
	return medicine, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.MedicineCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*model.MedicineSubcategory, error) {
	return s.repo.ListSubcategories(ctx, categoryID)
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*model.Medicine, error) {
	medicine, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine.CreatedBy != userID {
		return nil, apperr.Forbidden("you do not own this medicine", nil)
	}
	return medicine, nil
}
