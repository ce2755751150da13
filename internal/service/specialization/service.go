package specialization

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

const listCacheKey = "specializations:%s:%v:%v"

// Service reads the specialization taxonomy with a short in-process cache,
// the list rarely changes but is hit on every profile form.
type Service struct {
	repo  repository.SpecializationRepository
	cache *gocache.Cache
}

func NewService(repo repository.SpecializationRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Service) List(ctx context.Context, filters *model.SpecializationFilters) ([]*model.Specialization, error) {
	key := cacheKey(filters)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Specialization), nil
	}

	specs, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, specs)
	return specs, nil
}

func (s *Service) ListForFacilities(ctx context.Context) ([]*model.Specialization, error) {
	active := 1
	return s.List(ctx, &model.SpecializationFilters{IsActive: &active, IsActiveForFacility: &active})
}

func cacheKey(filters *model.SpecializationFilters) string {
	if filters == nil {
		return fmt.Sprintf(listCacheKey, "", nil, nil)
	}
	return fmt.Sprintf(listCacheKey, filters.Search, filters.IsActive, filters.IsActiveForFacility)
}
