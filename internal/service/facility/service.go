package facility

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

type Service struct {
	repo     repository.FacilityRepository
	specRepo repository.SpecializationRepository
	store    storage.Store
}

func NewService(repo repository.FacilityRepository, specRepo repository.SpecializationRepository, store storage.Store) *Service {
	return &Service{repo: repo, specRepo: specRepo, store: store}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.SaveFacilityRequest) (*model.Facility, error) {
	facility := &model.Facility{
		FacilityName:     req.FacilityName,
		FacilityProfile:  req.FacilityProfile,
		FacilityPhone:    req.FacilityPhone,
		FacilityEmail:    req.FacilityEmail,
		FacilityLocation: req.FacilityLocation,
		FacilityWebsite:  req.FacilityWebsite,
		IsActive:         1,
		CreatedBy:        userID,
		UpdatedBy:        userID,
	}

	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	return facility, nil
}

// Get returns one of the caller's facilities with specialties attached.
// Someone else's facility reads as absent.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Facility, error) {
	facility, err := s.repo.GetWithSpecialties(ctx, id)
	if err != nil {
		return nil, err
	}
	if facility.CreatedBy != userID || facility.IsActive != 1 {
		return nil, apperr.NotFound("facility", nil)
	}
	return facility, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, search string) ([]*model.Facility, error) {
	return s.repo.ListByUser(ctx, userID, search)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateFacilityRequest) (*model.Facility, error) {
	facility, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.FacilityName != nil {
		facility.FacilityName = *req.FacilityName
	}
	if req.FacilityProfile != nil {
		facility.FacilityProfile = req.FacilityProfile
	}
	if req.FacilityPhone != nil {
		facility.FacilityPhone = req.FacilityPhone
	}
	if req.FacilityEmail != nil {
		facility.FacilityEmail = req.FacilityEmail
	}
	if req.FacilityLocation != nil {
		facility.FacilityLocation = req.FacilityLocation
	}
	if req.FacilityWebsite != nil {
		facility.FacilityWebsite = req.FacilityWebsite
	}
	facility.UpdatedBy = userID

	if err := s.repo.Update(ctx, facility); err != nil {
		return nil, err
	}
	return facility, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	facility, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if facility.FacilityLogo != nil {
		if err := s.store.Delete(ctx, *facility.FacilityLogo); err != nil {
			return fmt.Errorf("failed to delete facility logo: %w", err)
		}
	}
	if facility.FacilityCoverImage != nil {
		if err := s.store.Delete(ctx, *facility.FacilityCoverImage); err != nil {
			return fmt.Errorf("failed to delete facility cover: %w", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// SaveSpecialties replaces the facility's specialty set after checking the
// IDs against the taxonomy.
func (s *Service) SaveSpecialties(ctx context.Context, userID uuid.UUID, req *model.SaveFacilitySpecialtiesRequest) error {
	if _, err := s.owned(ctx, userID, req.FacilityID); err != nil {
		return err
	}

	specs, err := s.specRepo.GetByIDs(ctx, req.SpecialtyIDs)
	if err != nil {
		return err
	}
	if len(specs) != len(req.SpecialtyIDs) {
		return apperr.Validation("validation failed", map[string]string{
			"specialty_ids": "one or more specialties do not exist",
		})
	}
	for _, spec := range specs {
		if spec.IsActiveForFacility != 1 {
			return apperr.Validation("validation failed", map[string]string{
				"specialty_ids": "one or more specialties are not available for facilities",
			})
		}
	}

	return s.repo.ReplaceSpecialties(ctx, req.FacilityID, req.SpecialtyIDs, userID)
}

// UpdateLogo replaces the facility logo object and records the new key.
func (s *Service) UpdateLogo(ctx context.Context, userID, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Facility, error) {
	return s.updateImage(ctx, userID, id, "facility_logo", storage.PrefixFacilityLogos, filename, body, contentType)
}

func (s *Service) UpdateCoverImage(ctx context.Context, userID, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Facility, error) {
	return s.updateImage(ctx, userID, id, "facility_cover_image", storage.PrefixFacilityCovers, filename, body, contentType)
}

func (s *Service) updateImage(ctx context.Context, userID, id uuid.UUID, column, prefix, filename string, body io.Reader, contentType string) (*model.Facility, error) {
	facility, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	switch column {
	case "facility_logo":
		if facility.FacilityLogo != nil {
			oldKey = *facility.FacilityLogo
		}
	case "facility_cover_image":
		if facility.FacilityCoverImage != nil {
			oldKey = *facility.FacilityCoverImage
		}
	}

	key, err := s.store.Replace(ctx, oldKey, prefix, filename, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store facility image: %w", err)
	}

	if err := s.repo.SetImage(ctx, id, column, key); err != nil {
		return nil, err
	}

	switch column {
	case "facility_logo":
		facility.FacilityLogo = &key
	case "facility_cover_image":
		facility.FacilityCoverImage = &key
	}
	return facility, nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*model.Facility, error) {
	facility, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if facility.CreatedBy != userID {
		return nil, apperr.Forbidden("you do not own this facility", nil)
	}
	return facility, nil
}
