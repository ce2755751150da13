package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

const uniqueViolation = "23505"

// mapError translates driver errors into application errors so services
// never branch on database internals.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperr.Conflict("record already exists", err)
	}
	return err
}
