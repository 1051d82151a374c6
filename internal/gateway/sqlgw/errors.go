package sqlgw

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/colearnhub/colearnhub/internal/gateway"
)

var (
	errEmptyOr       = errors.New("or filter without alternatives")
	errUnknownFilter = errors.New("unknown filter kind")
)

// uniqueMarkers are driver messages of unique violations for dialects that do
// not translate them into gorm.ErrDuplicatedKey.
var uniqueMarkers = []string{
	"UNIQUE constraint failed",
	"duplicate key value",
	"Duplicate entry",
}

var missingTableMarkers = []string{
	"no such table",
	"doesn't exist",
	"does not exist",
}

func translate(op gateway.Op, table gateway.Table, err error) error {
	return gateway.NewError(op, table, classify(err), err)
}

func classify(err error) error {
	msg := err.Error()

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return gateway.ErrConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return gateway.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrMissingWhereClause):
		return gateway.ErrInvalidRequest
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn):
		return gateway.ErrTransient
	case containsAny(msg, uniqueMarkers):
		return gateway.ErrConflict
	case containsAny(msg, missingTableMarkers):
		return gateway.ErrNotFound
	default:
		return gateway.ErrInternal
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
