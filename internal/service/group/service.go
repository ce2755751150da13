package group

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	"github.com/xyvra/marketplace-api/internal/storage"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

const (
	categoriesCacheKey   = "group:categories"
	subcategoriesKeyFmt  = "group:subcategories:%s"
	taxonomyCacheWindow  = 10 * time.Minute
	taxonomyCacheCleanup = 20 * time.Minute
)

type Service struct {
	repo     repository.GroupRepository
	store    storage.Store
	taxonomy *gocache.Cache
}

func NewService(repo repository.GroupRepository, store storage.Store) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		taxonomy: gocache.New(taxonomyCacheWindow, taxonomyCacheCleanup),
	}
}

// Create validates the taxonomy selection and writes the group plus its
// mappings in one transaction. Every subcategory must belong to the chosen
// category.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateGroupRequest) (*model.GroupDetails, error) {
	if err := s.validateTaxonomy(ctx, req.CategoryID, req.SubcategoryIDs); err != nil {
		return nil, err
	}

	group := &model.Group{
		GroupName:        req.GroupName,
		GroupDescription: req.GroupDescription,
		GroupLocation:    req.GroupLocation,
		GroupTags:        req.GroupTags,
		GroupPrivacy:     model.GroupPrivacy(req.GroupPrivacy),
		RequireApproval:  req.RequireApproval,
		CreatedBy:        userID,
	}

	if err := s.repo.Create(ctx, group, req.CategoryID, req.SubcategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return s.repo.GetDetails(ctx, group.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.GroupDetails, error) {
	return s.repo.GetDetails(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*model.Group, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.CreateGroupRequest) (*model.GroupDetails, error) {
	group, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateTaxonomy(ctx, req.CategoryID, req.SubcategoryIDs); err != nil {
		return nil, err
	}

	group.GroupName = req.GroupName
	group.GroupDescription = req.GroupDescription
	group.GroupLocation = req.GroupLocation
	group.GroupTags = req.GroupTags
	group.GroupPrivacy = model.GroupPrivacy(req.GroupPrivacy)
	group.RequireApproval = req.RequireApproval

	if err := s.repo.Update(ctx, group, req.CategoryID, req.SubcategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return s.repo.GetDetails(ctx, id)
}

func (s *Service) UpdateCategories(ctx context.Context, userID, id uuid.UUID, req *model.UpdateGroupCategoriesRequest) (*model.GroupDetails, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	if err := s.validateTaxonomy(ctx, req.CategoryID, req.SubcategoryIDs); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceCategories(ctx, id, req.CategoryID, req.SubcategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to replace group taxonomy: %w", err)
	}

	return s.repo.GetDetails(ctx, id)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	group, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if group.GroupImage != nil {
		if err := s.store.Delete(ctx, *group.GroupImage); err != nil {
			return fmt.Errorf("failed to delete group image: %w", err)
		}
	}
	if group.CoverImage != nil {
		if err := s.store.Delete(ctx, *group.CoverImage); err != nil {
			return fmt.Errorf("failed to delete cover image: %w", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) UpdateGroupImage(ctx context.Context, userID, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Group, error) {
	return s.updateImage(ctx, userID, id, "group_image", storage.PrefixGroupImages, filename, body, contentType)
}

func (s *Service) UpdateCoverImage(ctx context.Context, userID, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Group, error) {
	return s.updateImage(ctx, userID, id, "cover_image", storage.PrefixGroupCovers, filename, body, contentType)
}

func (s *Service) updateImage(ctx context.Context, userID, id uuid.UUID, column, prefix, filename string, body io.Reader, contentType string) (*model.Group, error) {
	group, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	switch column {
	case "group_image":
		if group.GroupImage != nil {
			oldKey = *group.GroupImage
		}
	case "cover_image":
		if group.CoverImage != nil {
			oldKey = *group.CoverImage
		}
	}

	key, err := s.store.Replace(ctx, oldKey, prefix, filename, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store group image: %w", err)
	}

	if err := s.repo.SetImage(ctx, id, column, key); err != nil {
		return nil, err
	}

	switch column {
	case "group_image":
		group.GroupImage = &key
	case "cover_image":
		group.CoverImage = &key
	}
	return group, nil
}

// ListCategories serves the taxonomy from a short in-process cache.
func (s *Service) ListCategories(ctx context.Context) ([]*model.GroupCategory, error) {
	if cached, ok := s.taxonomy.Get(categoriesCacheKey); ok {
		return cached.([]*model.GroupCategory), nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.taxonomy.SetDefault(categoriesCacheKey, categories)
	return categories, nil
}

func (s *Service) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*model.GroupSubcategory, error) {
	key := fmt.Sprintf(subcategoriesKeyFmt, categoryID)
	if cached, ok := s.taxonomy.Get(key); ok {
		return cached.([]*model.GroupSubcategory), nil
	}

	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	subs, err := s.repo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	s.taxonomy.SetDefault(key, subs)
	return subs, nil
}

// validateTaxonomy rejects the request before any write when the category
// is unknown or any subcategory belongs to a different category.
func (s *Service) validateTaxonomy(ctx context.Context, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return apperr.Validation("validation failed", map[string]string{
			"category_id": "category does not exist",
		})
	}

	subs, err := s.repo.GetSubcategoriesByIDs(ctx, subcategoryIDs)
	if err != nil {
		return err
	}
	if len(subs) != len(subcategoryIDs) {
		return apperr.Validation("validation failed", map[string]string{
			"subcategory_ids": "one or more subcategories do not exist",
		})
	}
	for _, sub := range subs {
		if sub.CategoryID != categoryID {
			return apperr.Validation("validation failed", map[string]string{
				"subcategory_ids": "subcategories must belong to the selected category",
			})
		}
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*model.Group, error) {
	group, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !group.IsOwnedBy(userID) {
		return nil, apperr.Forbidden("you do not own this group", nil)
	}
	return group, nil
}
