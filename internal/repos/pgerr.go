package repos

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/rolefit/rolefit-backend/internal/pkg/errors"
)

const uniqueViolationCode = "23505"

// classifyErr maps driver-level errors onto the shared sentinels so callers
// can errors.Is without importing pgconn.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperrors.ErrDuplicate
	}
	return err
}
