package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CheckRowsAffected examines the number of rows affected by a database
// operation. If no rows were affected, it returns notFoundErr. This is used
// for UPDATE operations where zero affected rows means the target record
// doesn't exist.
func CheckRowsAffected(result sql.Result, notFoundErr error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFoundErr
	}

	return nil
}
