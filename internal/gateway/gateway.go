// Package gateway defines the table scoped data access contract the domain
// logic talks to. Implementations live in sqlgw (gorm) and rest (PostgREST).
package gateway

import (
	"context"
)

// Table names a table of the backing store.
type Table string

// Patch is a partial row update keyed by column name.
type Patch map[string]any

// Gateway performs row level CRUD against named tables.
//
// Select decodes matching rows into dest, a pointer to a slice of models.
// Insert stores rows, a pointer to a model or to a slice of models, and writes
// the stored representation (server assigned ids) back into it.
// Update and Delete require at least one filter and report the affected rows;
// matching nothing is not an error.
type Gateway interface {
	Select(ctx context.Context, table Table, dest any, q Query) error
	Insert(ctx context.Context, table Table, rows any) error
	Update(ctx context.Context, table Table, patch Patch, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table Table, filters ...Filter) (int64, error)
}

// Op names a gateway operation in errors and metrics.
type Op string

// Gateway operations.
const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// RequireFilters rejects unscoped writes.
func RequireFilters(op Op, table Table, filters []Filter) error {
	if len(filters) == 0 {
		return NewError(op, table, ErrInvalidRequest, errMissingFilter)
	}

	return nil
}
