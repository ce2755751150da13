package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateWithSpecializations(ctx context.Context, user *model.User, specializationIDs []uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListServiceProviders(ctx context.Context, search string, p model.Pagination) ([]*model.User, int64, error)
	ReplaceSpecializations(ctx context.Context, userID uuid.UUID, specializationIDs []uuid.UUID) error
	GetSpecializations(ctx context.Context, userID uuid.UUID) ([]*model.Specialization, error)
	GetUserSpecializations(ctx context.Context, userID uuid.UUID) ([]*model.UserSpecialization, error)
}

type TokenRepository interface {
	StoreResetCode(ctx context.Context, userID uuid.UUID, code string, expiry time.Time) error
	VerifyResetCode(ctx context.Context, userID uuid.UUID, code string) error
	ConsumeResetCode(ctx context.Context, userID uuid.UUID, code string) error
}

type SpecializationRepository interface {
	List(ctx context.Context, filters *model.SpecializationFilters) ([]*model.Specialization, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Specialization, error)
}

type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	Get(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	GetWithSpecialties(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	Update(ctx context.Context, facility *model.Facility) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, search string) ([]*model.Facility, error)
	ReplaceSpecialties(ctx context.Context, facilityID uuid.UUID, specialtyIDs []uuid.UUID, actorID uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, column, path string) error
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Group, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*model.GroupDetails, error)
	Update(ctx context.Context, group *model.Group, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error
	ReplaceCategories(ctx context.Context, groupID, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Group, error)
	SetImage(ctx context.Context, id uuid.UUID, column, path string) error

	ListCategories(ctx context.Context) ([]*model.GroupCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.GroupCategory, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*model.GroupSubcategory, error)
	GetSubcategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.GroupSubcategory, error)
}

type MedicineRepository interface {
	Create(ctx context.Context, medicine *model.Medicine) error
	Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	Update(ctx context.Context, medicine *model.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, int64, error)
	ListCategories(ctx context.Context) ([]*model.MedicineCategory, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*model.MedicineSubcategory, error)
	SetImage(ctx context.Context, id uuid.UUID, path string) error
}

type CartRepository interface {
	GetItem(ctx context.Context, userID, medicineID uuid.UUID) (*model.CartItem, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*model.CartItem, error)
	Upsert(ctx context.Context, item *model.CartItem) error
	Update(ctx context.Context, item *model.CartItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.CartItem, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product, images []*model.ProductImage) error
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetWithImages(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.ProductFilters) ([]*model.Product, int64, error)

	AddImage(ctx context.Context, image *model.ProductImage) error
	GetImage(ctx context.Context, id uuid.UUID) (*model.ProductImage, error)
	ListImages(ctx context.Context, productID uuid.UUID) ([]*model.ProductImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
	OldestImage(ctx context.Context, productID uuid.UUID, excludeID uuid.UUID) (*model.ProductImage, error)
	SetFeaturedImage(ctx context.Context, productID uuid.UUID, path *string) error
	SetImageFeatured(ctx context.Context, imageID uuid.UUID, featured bool) error
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	Get(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*model.Blog, error)
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.BlogFilters) ([]*model.Blog, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]*model.Blog, error)
	ListTrending(ctx context.Context, limit int) ([]*model.Blog, error)
	ListLatestTrends(ctx context.Context, limit int) ([]*model.Blog, error)
	ListTags(ctx context.Context) ([]string, error)
	ListRelated(ctx context.Context, blogID uuid.UUID, tags []string, limit int) ([]*model.Blog, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	GetStats(ctx context.Context) (*model.DashboardStats, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.UserDocument) error
	Get(ctx context.Context, id uuid.UUID) (*model.UserDocument, error)
	ListByUser(ctx context.Context, userID uuid.UUID, documentType string) ([]*model.UserDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
