package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

// Service exposes the public service-provider directory.
type Service struct {
	userRepo repository.UserRepository
	docRepo  repository.DocumentRepository
}

func NewService(userRepo repository.UserRepository, docRepo repository.DocumentRepository) *Service {
	return &Service{userRepo: userRepo, docRepo: docRepo}
}

func (s *Service) List(ctx context.Context, search string, p model.Pagination) ([]*model.User, model.PageMeta, error) {
	p.Normalize(15)

	users, total, err := s.userRepo.ListServiceProviders(ctx, search, p)
	if err != nil {
		return nil, model.PageMeta{}, err
	}

	return users, model.NewPageMeta(p, total), nil
}

// Get returns a provider's public profile with specializations and
// certificates. Inactive or non-provider accounts are hidden.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ServiceProviderProfile, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsServiceProvider() || user.IsActive != 1 {
		return nil, apperr.NotFound("service provider", nil)
	}

	specs, err := s.userRepo.GetSpecializations(ctx, id)
	if err != nil {
		return nil, err
	}

	certs, err := s.docRepo.ListByUser(ctx, id, model.DocumentTypeCertificate)
	if err != nil {
		return nil, err
	}

	return &model.ServiceProviderProfile{
		User:            user,
		Specializations: specs,
		Certificates:    certs,
	}, nil
}
