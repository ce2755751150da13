package profile

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
	userRepo repository.UserRepository
	specRepo repository.SpecializationRepository
	docRepo  repository.DocumentRepository
	store    storage.Store
}

func NewService(userRepo repository.UserRepository, specRepo repository.SpecializationRepository,
	docRepo repository.DocumentRepository, store storage.Store) *Service {
	return &Service{
		userRepo: userRepo,
		specRepo: specRepo,
		docRepo:  docRepo,
		store:    store,
	}
}

// GetProfile returns the user together with specializations and documents.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	specs, err := s.userRepo.GetSpecializations(ctx, userID)
	if err != nil {
		return nil, err
	}

	userSpecs, err := s.userRepo.GetUserSpecializations(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids, err := s.docRepo.ListByUser(ctx, userID, model.DocumentTypeID)
	if err != nil {
		return nil, err
	}

	certs, err := s.docRepo.ListByUser(ctx, userID, model.DocumentTypeCertificate)
	if err != nil {
		return nil, err
	}

	return &model.UserProfile{
		User:                user,
		Specializations:     specs,
		UserSpecializations: userSpecs,
		UserIDs:             ids,
		UserDocuments:       certs,
	}, nil
}

func (s *Service) UpdateBasicDetails(ctx context.Context, userID uuid.UUID, req *model.UpdateBasicDetailsRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.DOB != nil {
		user.DOB = req.DOB
	}
	if req.Telephone != nil {
		user.Telephone = req.Telephone
	}
	if req.IDNumber != nil {
		user.IDNumber = req.IDNumber
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.AccountType != nil {
		user.AccountType = req.AccountType
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdateServiceProviderDetails stores licence details and replaces the
// user's specializations. Unknown specialization IDs are rejected before
// anything is written.
func (s *Service) UpdateServiceProviderDetails(ctx context.Context, userID uuid.UUID, req *model.ServiceProviderDetailsRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	specs, err := s.specRepo.GetByIDs(ctx, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}
	if len(specs) != len(req.SpecializationIDs) {
		return nil, apperr.Validation("validation failed", map[string]string{
			"specialization_ids": "one or more specializations do not exist",
		})
	}

	providerType := model.AccountTypeServiceProvider
	user.LicenceNumber = &req.LicenceNumber
	user.ProfessionalBio = &req.ProfessionalBio
	user.AccountType = &providerType

	if err := s.userRepo.UpdateWithSpecializations(ctx, user, req.SpecializationIDs); err != nil {
		return nil, fmt.Errorf("failed to save service provider details: %w", err)
	}

	return user, nil
}

// UpdateProfileImage swaps the stored image, deleting the previous object.
func (s *Service) UpdateProfileImage(ctx context.Context, userID uuid.UUID, filename string, body io.Reader, contentType string) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	if user.ProfileImage != nil {
		oldKey = *user.ProfileImage
	}

	key, err := s.store.Replace(ctx, oldKey, storage.PrefixProfileImages, filename, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store profile image: %w", err)
	}

	user.ProfileImage = &key
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UploadDocument stores an ID or certificate file for the user.
func (s *Service) UploadDocument(ctx context.Context, userID uuid.UUID, docType, filename string, body io.Reader, contentType string) (*model.UserDocument, error) {
	if docType != model.DocumentTypeID && docType != model.DocumentTypeCertificate {
		return nil, apperr.BadRequest("unsupported document type", nil)
	}

	key, err := s.store.Put(ctx, storage.PrefixUserDocuments, filename, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &model.UserDocument{
		UserID:       userID,
		DocumentType: docType,
		DocumentPath: key,
		DocumentName: filename,
		IsActive:     1,
		CreatedBy:    userID,
		UpdatedBy:    userID,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return doc, nil
}

func (s *Service) DeleteDocument(ctx context.Context, userID, docID uuid.UUID) error {
	doc, err := s.docRepo.Get(ctx, docID)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return apperr.Forbidden("you do not own this document", nil)
	}

	if err := s.store.Delete(ctx, doc.DocumentPath); err != nil {
		return fmt.Errorf("failed to delete stored document: %w", err)
	}
	return s.docRepo.Delete(ctx, docID)
}
