package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translateErr maps driver errors onto the dao sentinels. duplicate and
// notFound may be nil when the operation cannot produce them.
func translateErr(err error, duplicate, notFound error) error {
	if err == nil {
		return nil
	}

	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	if duplicate != nil && isUniqueViolation(err) {
		return duplicate
	}

	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
