package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/colearnhub/colearnhub/internal/gateway"
)

var (
	errEmptyOr       = errors.New("or filter without alternatives")
	errUnknownFilter = errors.New("unknown filter kind")
)

// encodeFilters adds one query parameter per filter: col=op.value for plain
// filters and or=(...) for alternatives. Filters on the same column all apply.
func encodeFilters(params url.Values, filters []gateway.Filter) error {
	for _, f := range filters {
		if f.Kind == gateway.KindOr {
			inner, err := encodeOr(f.Any)
			if err != nil {
				return err
			}

			params.Add("or", inner)

			continue
		}

		cond, err := condition(f)
		if err != nil {
			return err
		}

		params.Add(f.Field, cond)
	}

	return nil
}

func encodeOr(filters []gateway.Filter) (string, error) {
	if len(filters) == 0 {
		return "", errEmptyOr
	}

	parts := make([]string, 0, len(filters))

	for _, f := range filters {
		if f.Kind == gateway.KindOr {
			inner, err := encodeOr(f.Any)
			if err != nil {
				return "", err
			}

			parts = append(parts, "or"+inner)

			continue
		}

		cond, err := condition(f)
		if err != nil {
			return "", err
		}

		parts = append(parts, f.Field+"."+cond)
	}

	return "(" + strings.Join(parts, ",") + ")", nil
}

func condition(f gateway.Filter) (string, error) {
	switch f.Kind {
	case gateway.KindEq:
		return "eq." + quote(formatValue(f.Value)), nil
	case gateway.KindIsNull:
		return "is.null", nil
	case gateway.KindIn:
		values := make([]string, len(f.Values))
		for i, v := range f.Values {
			values[i] = quote(v)
		}

		return "in.(" + strings.Join(values, ",") + ")", nil
	case gateway.KindContainsFold:
		s, _ := f.Value.(string)

		return "ilike." + quote("*"+escapeLike(s)+"*"), nil
	default:
		return "", errUnknownFilter
	}
}

// likeReplacer escapes LIKE wildcards; '*' is PostgREST's wildcard and has
// no escape, so it is dropped from search terms.
var likeReplacer = strings.NewReplacer(
	`\`, `\\`,
	"%", `\%`,
	"_", `\_`,
	"*", "",
)

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// quote wraps values containing PostgREST list delimiters in double quotes.
func quote(s string) string {
	if !strings.ContainsAny(s, `,()"`) {
		return s
	}

	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)

	return `"` + s + `"`
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}
