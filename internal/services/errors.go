package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/charlesng35/corpman/pkg/errors"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueFailure  = "unique constraint failed"
	genericDuplicateHint = "duplicate key"
)

// isUniqueViolation reports whether err is a unique index violation from any supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, sqliteUniqueFailure) || strings.Contains(lower, genericDuplicateHint)
}

// translateWriteError maps a unique violation to conflict and wraps anything else with op.
func translateWriteError(err error, conflict *apperrors.AppError, op string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return conflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
