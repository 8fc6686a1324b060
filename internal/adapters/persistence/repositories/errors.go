package repositories

import (
	"context"
	"errors"

	"mealscan-api/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is the MySQL error number for ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// translateError maps backend-specific errors to the closed domain error
// set, once, at the persistence boundary. Services match on domain errors
// and never see driver codes or GORM sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConstraintViolation
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return domain.ErrConstraintViolation
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrTransient
	}

	return err
}
