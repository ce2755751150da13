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

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, name, email, password, verification_code, is_active,
			account_type, telephone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.VerificationCode,
		user.IsActive,
		user.AccountType,
		user.Telephone,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapError(err, "user")
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError(err, "user")
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError(err, "user")
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return updateUser(ctx, r.db, user)
}

// UpdateWithSpecializations writes the user row and replaces the
// specialization set in one transaction, so a failed mapping write rolls
// back the row change too.
func (r *userRepository) UpdateWithSpecializations(ctx context.Context, user *model.User, specializationIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateUser(ctx, tx, user); err != nil {
			return err
		}
		return replaceUserSpecializations(ctx, tx, user.ID, specializationIDs)
	})
}

func updateUser(ctx context.Context, db sqlx.ExtContext, user *model.User) error {
	query := `
		UPDATE users SET
			name = $1,
			email = $2,
			verification_code = $3,
			is_active = $4,
			email_verified_at = $5,
			profile_image = $6,
			dob = $7,
			telephone = $8,
			id_number = $9,
			account_type = $10,
			address = $11,
			licence_number = $12,
			professional_bio = $13,
			sp_approved = $14,
			updated_at = $15
		WHERE id = $16
	`

	result, err := db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.VerificationCode,
		user.IsActive,
		user.EmailVerifiedAt,
		user.ProfileImage,
		user.DOB,
		user.Telephone,
		user.IDNumber,
		user.AccountType,
		user.Address,
		user.LicenceNumber,
		user.ProfessionalBio,
		user.SpApproved,
		time.Now(),
		user.ID,
	)
	if err != nil {
		return mapError(err, "user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("user not found"), "user")
	}

	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *userRepository) ListServiceProviders(ctx context.Context, search string, p model.Pagination) ([]*model.User, int64, error) {
	base := r.Builder().From("users").Where(goqu.Ex{
		"account_type": model.AccountTypeServiceProvider,
		"is_active":    1,
	})
	if search != "" {
		pattern := "%" + search + "%"
		base = base.Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("professional_bio").ILike(pattern),
		))
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count service providers: %w", err)
	}

	listSQL, listArgs, err := base.Select("*").
		Order(goqu.I("name").Asc()).
		Limit(uint(p.PerPage)).
		Offset(uint(p.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	users := []*model.User{}
	if err := r.db.SelectContext(ctx, &users, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list service providers: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) ReplaceSpecializations(ctx context.Context, userID uuid.UUID, specializationIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return replaceUserSpecializations(ctx, tx, userID, specializationIDs)
	})
}

func replaceUserSpecializations(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, specializationIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_specializations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear specializations: %w", err)
	}

	query := `
		INSERT INTO user_specializations (id, user_id, specialization_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, 1, NOW(), NOW())
	`
	for _, specID := range specializationIDs {
		if _, err := tx.ExecContext(ctx, query, uuid.New(), userID, specID); err != nil {
			return fmt.Errorf("failed to insert specialization: %w", err)
		}
	}
	return nil
}

func (r *userRepository) GetSpecializations(ctx context.Context, userID uuid.UUID) ([]*model.Specialization, error) {
	query := `
		SELECT s.* FROM specializations s
		JOIN user_specializations us ON us.specialization_id = s.id
		WHERE us.user_id = $1 AND us.is_active = 1
		ORDER BY s.specialization_name
	`

	specs := []*model.Specialization{}
	if err := r.db.SelectContext(ctx, &specs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user specializations: %w", err)
	}
	return specs, nil
}

func (r *userRepository) GetUserSpecializations(ctx context.Context, userID uuid.UUID) ([]*model.UserSpecialization, error) {
	query := `SELECT * FROM user_specializations WHERE user_id = $1 AND is_active = 1`

	rows := []*model.UserSpecialization{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user specialization rows: %w", err)
	}
	return rows, nil
}
