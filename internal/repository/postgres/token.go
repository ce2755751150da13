package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xyvra/marketplace-api/internal/repository"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type tokenRepository struct {
	BaseRepository
}

func NewTokenRepository(base BaseRepository) repository.TokenRepository {
	return &tokenRepository{base}
}

func (r *tokenRepository) StoreResetCode(ctx context.Context, userID uuid.UUID, code string, expiry time.Time) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO user_tokens (user_id, token, type, expires_at, created_at)
			VALUES ($1, $2, 'reset', $3, NOW())
			ON CONFLICT (user_id, type) DO UPDATE
			SET token = $2, expires_at = $3, verified_at = NULL, used_at = NULL, updated_at = NOW()
		`
		_, err := tx.ExecContext(ctx, query, userID, code, expiry)
		return err
	})
}

func (r *tokenRepository) VerifyResetCode(ctx context.Context, userID uuid.UUID, code string) error {
	query := `
		UPDATE user_tokens
		SET verified_at = NOW()
		WHERE user_id = $1
		AND token = $2
		AND type = 'reset'
		AND expires_at > NOW()
		AND used_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, userID, code)
	if err != nil {
		return fmt.Errorf("failed to verify reset code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.BadRequest("invalid or expired reset code", nil)
	}

	return nil
}

func (r *tokenRepository) ConsumeResetCode(ctx context.Context, userID uuid.UUID, code string) error {
	query := `
		UPDATE user_tokens
		SET used_at = NOW()
		WHERE user_id = $1
		AND token = $2
		AND type = 'reset'
		AND expires_at > NOW()
		AND verified_at IS NOT NULL
		AND used_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, userID, code)
	if err != nil {
		return fmt.Errorf("failed to consume reset code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.BadRequest("reset code not verified or already used", nil)
	}

	return nil
}
