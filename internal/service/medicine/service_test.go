package medicine

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type fakeMedicineRepo struct {
	medicines map[uuid.UUID]*model.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[uuid.UUID]*model.Medicine)}
}

func (r *fakeMedicineRepo) Create(_ context.Context, medicine *model.Medicine) error {
	for _, m := range r.medicines {
		if m.MedicineNumber == medicine.MedicineNumber {
			return apperr.Conflict("record already exists", nil)
		}
	}
	medicine.ID = uuid.New()
	row := *medicine
	r.medicines[medicine.ID] = &row
	return nil
}

func (r *fakeMedicineRepo) Get(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	if m, ok := r.medicines[id]; ok {
		row := *m
		return &row, nil
	}
	return nil, apperr.NotFound("medicine", nil)
}

func (r *fakeMedicineRepo) Update(_ context.Context, medicine *model.Medicine) error {
	if _, ok := r.medicines[medicine.ID]; !ok {
		return apperr.NotFound("medicine", nil)
	}
	row := *medicine
	r.medicines[medicine.ID] = &row
	return nil
}

func (r *fakeMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.medicines, id)
	return nil
}

func (r *fakeMedicineRepo) List(_ context.Context, filters *model.MedicineFilters) ([]*model.Medicine, int64, error) {
	var out []*model.Medicine
	for _, m := range r.medicines {
		if m.IsActive != 1 {
			continue
		}
		if filters.RequiresPrescription != nil && m.RequiresPrescription != *filters.RequiresPrescription {
			continue
		}
		if filters.InStock != nil {
			if *filters.InStock && m.Stock == 0 {
				continue
			}
			if !*filters.InStock && m.Stock > 0 {
				continue
			}
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMedicineRepo) ListCategories(_ context.Context) ([]*model.MedicineCategory, error) {
	return nil, nil
}

func (r *fakeMedicineRepo) ListSubcategories(_ context.Context, _ uuid.UUID) ([]*model.MedicineSubcategory, error) {
	return nil, nil
}

func (r *fakeMedicineRepo) SetImage(_ context.Context, id uuid.UUID, path string) error {
	m, ok := r.medicines[id]
	if !ok {
		return apperr.NotFound("medicine", nil)
	}
	m.Image = &path
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

func newTestService() (*Service, *fakeMedicineRepo) {
	repo := newFakeMedicineRepo()
	return NewService(repo, &fakeStore{}), repo
}

func TestCreateMedicineGeneratesSlug(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.Create(context.Background(), uuid.New(), &model.SaveMedicineRequest{
		MedicineName:   "Paracetamol 500mg",
		MedicineNumber: "MED-0001",
		Price:          4.50,
		Stock:          20,
	})
	require.NoError(t, err)
	assert.Equal(t, "paracetamol-500mg", m.Slug)
	assert.Equal(t, "MED-0001", m.MedicineNumber)
}

func TestCreateMedicineKeepsProvidedSlug(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.Create(context.Background(), uuid.New(), &model.SaveMedicineRequest{
		MedicineName:   "Paracetamol 500mg",
		Slug:           "panadol-extra",
		MedicineNumber: "MED-0002",
		Price:          4.50,
	})
	require.NoError(t, err)
	assert.Equal(t, "panadol-extra", m.Slug)
}

func TestCreateMedicineDuplicateNumber(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, &model.SaveMedicineRequest{
		MedicineName:   "Paracetamol 500mg",
		MedicineNumber: "MED-0001",
		Price:          4.50,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), owner, &model.SaveMedicineRequest{
		MedicineName:   "Ibuprofen 200mg",
		MedicineNumber: "MED-0001",
		Price:          6.00,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrConflict, apperr.CodeOf(err))
}

func TestUpdateMedicineAppliesNewFields(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	m, err := svc.Create(context.Background(), owner, &model.SaveMedicineRequest{
		MedicineName:   "Paracetamol 500mg",
		MedicineNumber: "MED-0001",
		Price:          4.50,
	})
	require.NoError(t, err)

	manufacturer := "Acme Pharma"
	prescription := true
	_, err = svc.Update(context.Background(), owner, m.ID, &model.UpdateMedicineRequest{
		Manufacturer:         &manufacturer,
		RequiresPrescription: &prescription,
	})
	require.NoError(t, err)

	stored := repo.medicines[m.ID]
	require.NotNil(t, stored.Manufacturer)
	assert.Equal(t, "Acme Pharma", *stored.Manufacturer)
	assert.True(t, stored.RequiresPrescription)
	assert.Equal(t, "paracetamol-500mg", stored.Slug)
}

func TestUpdateMedicineRegeneratesClearedSlug(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	m, err := svc.Create(context.Background(), owner, &model.SaveMedicineRequest{
		MedicineName:   "Paracetamol 500mg",
		MedicineNumber: "MED-0001",
		Price:          4.50,
	})
	require.NoError(t, err)

	name := "Panadol Extra"
	empty := ""
	_, err = svc.Update(context.Background(), owner, m.ID, &model.UpdateMedicineRequest{
		MedicineName: &name,
		Slug:         &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "panadol-extra", repo.medicines[m.ID].Slug)
}

func TestUpdateMedicineRequiresOwnership(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.Create(context.Background(), uuid.New(), &model.SaveMedicineRequest{
		MedicineName:   "Paracetamol 500mg",
		MedicineNumber: "MED-0001",
		Price:          4.50,
	})
	require.NoError(t, err)

	price := 9.99
	_, err = svc.Update(context.Background(), uuid.New(), m.ID, &model.UpdateMedicineRequest{Price: &price})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrForbidden, apperr.CodeOf(err))
}
