package sqlgw

import (
	"database/sql/driver"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
)

// foldFunc lower-cases its text argument with Unicode case mapping. SQLite's
// built-in LOWER only folds ASCII letters.
const foldFunc = "colearnhub_fold"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, fold)
}

func fold(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	case nil:
		return nil, nil
	default:
		return v, nil
	}
}

// foldFor returns the SQL function used by ContainsFold on the dialect.
func foldFor(dialect string) string {
	if dialect == "sqlite" {
		return foldFunc
	}

	return "LOWER"
}
