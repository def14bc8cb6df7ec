package persistent

import (
	"errors"

	"blog-api/services/blog/internal/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || hasPgCode(err, pgUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || hasPgCode(err, pgForeignKeyViolation)
}

// isRetryable covers errors a concurrent writer can cause on the vote table.
func isRetryable(err error) bool {
	return isDuplicateKey(err) || hasPgCode(err, pgSerializationFailure) || hasPgCode(err, pgDeadlockDetected)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// notFound maps gorm's record-not-found to the given domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

func invalidCategory(err error) error {
	if isForeignKeyViolation(err) {
		return entity.NewValidationError("category", "invalid pk, object does not exist")
	}
	return err
}
