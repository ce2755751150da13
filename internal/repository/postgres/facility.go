package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type facilityRepository struct {
	BaseRepository
}

func NewFacilityRepository(base BaseRepository) repository.FacilityRepository {
	return &facilityRepository{base}
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	query := `
		INSERT INTO facilities (
			id, facility_name, facility_profile, facility_phone, facility_email,
			facility_location, facility_website, is_active, created_by, updated_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	facility.ID = uuid.New()
	facility.CreatedAt = time.Now()
	facility.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		facility.ID,
		facility.FacilityName,
		facility.FacilityProfile,
		facility.FacilityPhone,
		facility.FacilityEmail,
		facility.FacilityLocation,
		facility.FacilityWebsite,
		facility.IsActive,
		facility.CreatedBy,
		facility.UpdatedBy,
		facility.CreatedAt,
		facility.UpdatedAt,
	)
	return mapError(err, "facility")
}

func (r *facilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	query := `SELECT * FROM facilities WHERE id = $1`

	var facility model.Facility
	if err := r.db.GetContext(ctx, &facility, query, id); err != nil {
		return nil, mapError(err, "facility")
	}
	return &facility, nil
}

func (r *facilityRepository) GetWithSpecialties(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	facility, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT s.* FROM specializations s
		JOIN facility_specialities fs ON fs.speciality_id = s.id
		WHERE fs.facility_id = $1
		ORDER BY s.specialization_name
	`

	specs := []*model.Specialization{}
	if err := r.db.SelectContext(ctx, &specs, query, id); err != nil {
		return nil, fmt.Errorf("failed to get facility specialties: %w", err)
	}
	facility.Specialties = specs

	return facility, nil
}

func (r *facilityRepository) Update(ctx context.Context, facility *model.Facility) error {
	query := `
		UPDATE facilities SET
			facility_name = $1,
			facility_profile = $2,
			facility_phone = $3,
			facility_email = $4,
			facility_location = $5,
			facility_website = $6,
			is_active = $7,
			updated_by = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		facility.FacilityName,
		facility.FacilityProfile,
		facility.FacilityPhone,
		facility.FacilityEmail,
		facility.FacilityLocation,
		facility.FacilityWebsite,
		facility.IsActive,
		facility.UpdatedBy,
		time.Now(),
		facility.ID,
	)
	if err != nil {
		return mapError(err, "facility")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("facility not found"), "facility")
	}

	return nil
}

func (r *facilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM facility_specialities WHERE facility_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete facility specialties: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete facility: %w", err)
		}
		return nil
	})
}

// ListByUser returns the owner's active facilities with their specialties
// attached, optionally filtered by a search term.
func (r *facilityRepository) ListByUser(ctx context.Context, userID uuid.UUID, search string) ([]*model.Facility, error) {
	base := r.Builder().From("facilities").Where(goqu.Ex{
		"created_by": userID.String(),
		"is_active":  1,
	})
	if search != "" {
		pattern := "%" + search + "%"
		base = base.Where(goqu.Or(
			goqu.I("facility_name").ILike(pattern),
			goqu.I("facility_profile").ILike(pattern),
			goqu.I("facility_location").ILike(pattern),
		))
	}

	listSQL, listArgs, err := base.Select("*").
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build facility query: %w", err)
	}

	facilities := []*model.Facility{}
	if err := r.db.SelectContext(ctx, &facilities, listSQL, listArgs...); err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	if len(facilities) == 0 {
		return facilities, nil
	}

	ids := make([]string, len(facilities))
	byID := make(map[uuid.UUID]*model.Facility, len(facilities))
	for i, f := range facilities {
		ids[i] = f.ID.String()
		byID[f.ID] = f
	}

	specSQL, specArgs, err := r.Builder().From(goqu.T("specializations").As("s")).
		Select("s.*", goqu.I("fs.facility_id")).
		Join(goqu.T("facility_specialities").As("fs"), goqu.On(goqu.I("fs.speciality_id").Eq(goqu.I("s.id")))).
		Where(goqu.I("fs.facility_id").In(ids)).
		Order(goqu.I("s.specialization_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build specialty query: %w", err)
	}

	rows := []*struct {
		model.Specialization
		FacilityID uuid.UUID `db:"facility_id"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, specSQL, specArgs...); err != nil {
		return nil, fmt.Errorf("failed to list facility specialties: %w", err)
	}
	for _, row := range rows {
		if f, ok := byID[row.FacilityID]; ok {
			spec := row.Specialization
			f.Specialties = append(f.Specialties, &spec)
		}
	}

	return facilities, nil
}

func (r *facilityRepository) ReplaceSpecialties(ctx context.Context, facilityID uuid.UUID, specialtyIDs []uuid.UUID, actorID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM facility_specialities WHERE facility_id = $1`, facilityID); err != nil {
			return fmt.Errorf("failed to clear facility specialties: %w", err)
		}

		query := `
			INSERT INTO facility_specialities (id, facility_id, speciality_id, created_by, updated_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4, NOW(), NOW())
		`
		for _, specID := range specialtyIDs {
			if _, err := tx.ExecContext(ctx, query, uuid.New(), facilityID, specID, actorID); err != nil {
				return fmt.Errorf("failed to insert facility specialty: %w", err)
			}
		}
		return nil
	})
}

func (r *facilityRepository) SetImage(ctx context.Context, id uuid.UUID, column, path string) error {
	if column != "facility_logo" && column != "facility_cover_image" {
		return fmt.Errorf("unsupported facility image column: %s", column)
	}

	query := fmt.Sprintf(`UPDATE facilities SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	_, err := r.db.ExecContext(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("failed to update facility image: %w", err)
	}
	return nil
}
