package facility

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type fakeFacilityRepo struct {
	facilities  map[uuid.UUID]*model.Facility
	specialties map[uuid.UUID][]uuid.UUID
	specs       map[uuid.UUID]*model.Specialization
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{
		facilities:  make(map[uuid.UUID]*model.Facility),
		specialties: make(map[uuid.UUID][]uuid.UUID),
		specs:       make(map[uuid.UUID]*model.Specialization),
	}
}

func (r *fakeFacilityRepo) Create(_ context.Context, facility *model.Facility) error {
	facility.ID = uuid.New()
	r.facilities[facility.ID] = facility
	return nil
}

func (r *fakeFacilityRepo) Get(_ context.Context, id uuid.UUID) (*model.Facility, error) {
	if f, ok := r.facilities[id]; ok {
		row := *f
		return &row, nil
	}
	return nil, apperr.NotFound("facility", nil)
}

func (r *fakeFacilityRepo) GetWithSpecialties(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	f, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, specID := range r.specialties[id] {
		if s, ok := r.specs[specID]; ok {
			f.Specialties = append(f.Specialties, s)
		}
	}
	return f, nil
}

func (r *fakeFacilityRepo) Update(_ context.Context, facility *model.Facility) error {
	row := *facility
	r.facilities[facility.ID] = &row
	return nil
}

func (r *fakeFacilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.facilities, id)
	delete(r.specialties, id)
	return nil
}

func (r *fakeFacilityRepo) ListByUser(_ context.Context, userID uuid.UUID, search string) ([]*model.Facility, error) {
	var out []*model.Facility
	for _, f := range r.facilities {
		if f.CreatedBy != userID || f.IsActive != 1 {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.FacilityName), strings.ToLower(search)) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFacilityRepo) ReplaceSpecialties(_ context.Context, facilityID uuid.UUID, specialtyIDs []uuid.UUID, _ uuid.UUID) error {
	r.specialties[facilityID] = specialtyIDs
	return nil
}

func (r *fakeFacilityRepo) SetImage(_ context.Context, id uuid.UUID, column, path string) error {
	f, ok := r.facilities[id]
	if !ok {
		return apperr.NotFound("facility", nil)
	}
	switch column {
	case "facility_logo":
		f.FacilityLogo = &path
	case "facility_cover_image":
		f.FacilityCoverImage = &path
	}
	return nil
}

type fakeSpecRepo struct {
	specs map[uuid.UUID]*model.Specialization
}

func (r *fakeSpecRepo) List(_ context.Context, _ *model.SpecializationFilters) ([]*model.Specialization, error) {
	return nil, nil
}

func (r *fakeSpecRepo) Get(_ context.Context, id uuid.UUID) (*model.Specialization, error) {
	if s, ok := r.specs[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("specialization", nil)
}

func (r *fakeSpecRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Specialization, error) {
	var out []*model.Specialization
	for _, id := range ids {
		if s, ok := r.specs[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
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

func newTestService() (*Service, *fakeFacilityRepo, *fakeSpecRepo) {
	repo := newFakeFacilityRepo()
	specRepo := &fakeSpecRepo{specs: make(map[uuid.UUID]*model.Specialization)}
	return NewService(repo, specRepo, &fakeStore{}), repo, specRepo
}

func createFacility(t *testing.T, svc *Service, owner uuid.UUID, name string) *model.Facility {
	t.Helper()
	f, err := svc.Create(context.Background(), owner, &model.SaveFacilityRequest{FacilityName: name})
	require.NoError(t, err)
	return f
}

func TestGetFacilityScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	f := createFacility(t, svc, owner, "Sunrise Clinic")

	got, err := svc.Get(context.Background(), owner, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Clinic", got.FacilityName)

	_, err = svc.Get(context.Background(), uuid.New(), f.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrNotFound, apperr.CodeOf(err),
		"someone else's facility must read as absent")
}

func TestGetFacilityAttachesSpecialties(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := uuid.New()
	f := createFacility(t, svc, owner, "Sunrise Clinic")

	spec := &model.Specialization{Base: model.Base{ID: uuid.New()}, SpecializationName: "Radiology"}
	repo.specs[spec.ID] = spec
	repo.specialties[f.ID] = []uuid.UUID{spec.ID}

	got, err := svc.Get(context.Background(), owner, f.ID)
	require.NoError(t, err)
	require.Len(t, got.Specialties, 1)
	assert.Equal(t, "Radiology", got.Specialties[0].SpecializationName)
}

func TestListMineOnlyActiveOwned(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := uuid.New()
	mine := createFacility(t, svc, owner, "Sunrise Clinic")
	createFacility(t, svc, uuid.New(), "Other Clinic")

	inactive := createFacility(t, svc, owner, "Closed Clinic")
	repo.facilities[inactive.ID].IsActive = 0

	facilities, err := svc.ListMine(context.Background(), owner, "")
	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, mine.ID, facilities[0].ID)
}

func TestSaveSpecialtiesRejectsNonFacilitySpecialty(t *testing.T) {
	svc, _, specRepo := newTestService()
	owner := uuid.New()
	f := createFacility(t, svc, owner, "Sunrise Clinic")

	spec := &model.Specialization{Base: model.Base{ID: uuid.New()}, SpecializationName: "Radiology", IsActive: 1}
	specRepo.specs[spec.ID] = spec

	err := svc.SaveSpecialties(context.Background(), owner, &model.SaveFacilitySpecialtiesRequest{
		FacilityID:   f.ID,
		SpecialtyIDs: []uuid.UUID{spec.ID},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrValidation, apperr.CodeOf(err))
}
