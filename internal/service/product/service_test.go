package product

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
	images   map[uuid.UUID]*model.ProductImage
	clock    time.Time
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		images:   make(map[uuid.UUID]*model.ProductImage),
		clock:    time.Now(),
	}
}

func (r *fakeProductRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeProductRepo) Create(ctx context.Context, product *model.Product, images []*model.ProductImage) error {
	product.ID = uuid.New()
	r.products[product.ID] = product
	for _, img := range images {
		img.ProductID = product.ID
		if err := r.AddImage(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) Get(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product", nil)
}

func (r *fakeProductRepo) GetWithImages(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images, _ = r.ListImages(ctx, id)
	return p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *model.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	for imgID, img := range r.images {
		if img.ProductID == id {
			delete(r.images, imgID)
		}
	}
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, filters *model.ProductFilters) ([]*model.Product, int64, error) {
	var out []*model.Product
	for _, p := range r.products {
		if filters.CreatedBy != nil && p.CreatedBy != *filters.CreatedBy {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) AddImage(_ context.Context, image *model.ProductImage) error {
	image.ID = uuid.New()
	image.CreatedAt = r.tick()
	r.images[image.ID] = image
	return nil
}

func (r *fakeProductRepo) GetImage(_ context.Context, id uuid.UUID) (*model.ProductImage, error) {
	if img, ok := r.images[id]; ok {
		return img, nil
	}
	return nil, apperr.NotFound("product image", nil)
}

func (r *fakeProductRepo) ListImages(_ context.Context, productID uuid.UUID) ([]*model.ProductImage, error) {
	var out []*model.ProductImage
	for _, img := range r.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProductRepo) DeleteImage(_ context.Context, id uuid.UUID) error {
	delete(r.images, id)
	return nil
}

func (r *fakeProductRepo) OldestImage(ctx context.Context, productID uuid.UUID, excludeID uuid.UUID) (*model.ProductImage, error) {
	images, _ := r.ListImages(ctx, productID)
	for _, img := range images {
		if img.ID != excludeID {
			return img, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) SetFeaturedImage(_ context.Context, productID uuid.UUID, path *string) error {
	p, ok := r.products[productID]
	if !ok {
		return apperr.NotFound("product", nil)
	}
	p.ProductFeaturedImage = path
	return nil
}

func (r *fakeProductRepo) SetImageFeatured(_ context.Context, imageID uuid.UUID, featured bool) error {
	img, ok := r.images[imageID]
	if !ok {
		return apperr.NotFound("product image", nil)
	}
	img.IsFeatured = featured
	return nil
}

type fakeStore struct {
	deleted []string
	puts    int
}

func (s *fakeStore) Put(_ context.Context, prefix, filename string, _ io.Reader, _ string) (string, error) {
	s.puts++
	return fmt.Sprintf("%s/%d-%s", prefix, s.puts, filename), nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) Replace(ctx context.Context, oldKey, prefix, filename string, body io.Reader, contentType string) (string, error) {
	if oldKey != "" {
		if err := s.Delete(ctx, oldKey); err != nil {
			return "", err
		}
	}
	return s.Put(ctx, prefix, filename, body, contentType)
}

func (s *fakeStore) URL(key string) string { return "https://cdn.example.com/" + key }

func uploads(names ...string) []Upload {
	out := make([]Upload, 0, len(names))
	for _, name := range names {
		out = append(out, Upload{Filename: name, ContentType: "image/png", Body: strings.NewReader("img")})
	}
	return out
}

func saveRequest() *model.SaveProductRequest {
	return &model.SaveProductRequest{
		ProductName:  "Blood Pressure Monitor",
		ProductPrice: 79.99,
		ProductStock: 12,
	}
}

func TestCreateFeaturesFirstImage(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeStore{})
	userID := uuid.New()

	p, err := svc.Create(context.Background(), userID, saveRequest(), uploads("front.png", "side.png"))
	require.NoError(t, err)
	require.NotNil(t, p.ProductFeaturedImage)
	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].IsFeatured)
	assert.False(t, p.Images[1].IsFeatured)
	assert.Equal(t, p.Images[0].ImagePath, *p.ProductFeaturedImage)
}

func TestDeleteFeaturedImagePromotesOldest(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeStore{})
	userID := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, userID, saveRequest(), uploads("a.png", "b.png", "c.png"))
	require.NoError(t, err)
	featured := p.Images[0]
	next := p.Images[1]

	after, err := svc.DeleteImage(ctx, userID, p.ID, featured.ID)
	require.NoError(t, err)
	require.NotNil(t, after.ProductFeaturedImage)
	assert.Equal(t, next.ImagePath, *after.ProductFeaturedImage)
	require.Len(t, after.Images, 2)
	assert.True(t, after.Images[0].IsFeatured)
}

func TestDeleteLastImageClearsFeatured(t *testing.T) {
	repo := newFakeProductRepo()
	store := &fakeStore{}
	svc := NewService(repo, store)
	userID := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, userID, saveRequest(), uploads("only.png"))
	require.NoError(t, err)
	only := p.Images[0]

	after, err := svc.DeleteImage(ctx, userID, p.ID, only.ID)
	require.NoError(t, err)
	assert.Nil(t, after.ProductFeaturedImage)
	assert.Empty(t, after.Images)
	assert.Contains(t, store.deleted, only.ImagePath)
}

func TestDeleteNonFeaturedImageKeepsFeatured(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeStore{})
	userID := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, userID, saveRequest(), uploads("a.png", "b.png"))
	require.NoError(t, err)
	featuredPath := *p.ProductFeaturedImage

	after, err := svc.DeleteImage(ctx, userID, p.ID, p.Images[1].ID)
	require.NoError(t, err)
	require.NotNil(t, after.ProductFeaturedImage)
	assert.Equal(t, featuredPath, *after.ProductFeaturedImage)
}

func TestDeleteImageForeignProduct(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeStore{})
	userID := uuid.New()
	ctx := context.Background()

	p1, err := svc.Create(ctx, userID, saveRequest(), uploads("a.png"))
	require.NoError(t, err)
	p2, err := svc.Create(ctx, userID, saveRequest(), uploads("b.png"))
	require.NoError(t, err)

	_, err = svc.DeleteImage(ctx, userID, p1.ID, p2.Images[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrBadRequest, apperr.CodeOf(err))
}

func TestAddImagesPromotesWhenNoFeatured(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeStore{})
	userID := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, userID, saveRequest(), nil)
	require.NoError(t, err)
	assert.Nil(t, p.ProductFeaturedImage)

	after, err := svc.AddImages(ctx, userID, p.ID, uploads("late.png"))
	require.NoError(t, err)
	require.NotNil(t, after.ProductFeaturedImage)
	require.Len(t, after.Images, 1)
	assert.True(t, after.Images[0].IsFeatured)
}

func TestDeleteProductRequiresOwnership(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeStore{})
	owner := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, saveRequest(), nil)
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrForbidden, apperr.CodeOf(err))
}
