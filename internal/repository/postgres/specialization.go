package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type specializationRepository struct {
	BaseRepository
}

func NewSpecializationRepository(base BaseRepository) repository.SpecializationRepository {
	return &specializationRepository{base}
}

func (r *specializationRepository) List(ctx context.Context, filters *model.SpecializationFilters) ([]*model.Specialization, error) {
	q := r.Builder().From("specializations").Select("*")
	if filters != nil {
		if filters.Search != "" {
			q = q.Where(goqu.I("specialization_name").ILike("%" + filters.Search + "%"))
		}
		if filters.IsActive != nil {
			q = q.Where(goqu.Ex{"is_active": *filters.IsActive})
		}
		if filters.IsActiveForFacility != nil {
			q = q.Where(goqu.Ex{"is_active_for_facility": *filters.IsActiveForFacility})
		}
	}
	q = q.Order(goqu.I("specialization_name").Asc())

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build specialization query: %w", err)
	}

	specs := []*model.Specialization{}
	if err := r.db.SelectContext(ctx, &specs, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	return specs, nil
}

func (r *specializationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	query := `SELECT * FROM specializations WHERE id = $1`

	var spec model.Specialization
	if err := r.db.GetContext(ctx, &spec, query, id); err != nil {
		return nil, mapError(err, "specialization")
	}
	return &spec, nil
}

func (r *specializationRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Specialization, error) {
	if len(ids) == 0 {
		return []*model.Specialization{}, nil
	}

	sql, args, err := r.Builder().From("specializations").
		Select("*").
		Where(goqu.I("id").In(uuidStrings(ids))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build specialization query: %w", err)
	}

	specs := []*model.Specialization{}
	if err := r.db.SelectContext(ctx, &specs, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to get specializations: %w", err)
	}
	return specs, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
