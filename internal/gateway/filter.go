package gateway

// FilterKind selects how a Filter matches a column.
type FilterKind int

// Filter kinds.
const (
	KindEq FilterKind = iota + 1
	KindContainsFold
	KindIn
	KindIsNull
	KindOr
)

func (k FilterKind) String() string {
	switch k {
	case KindEq:
		return "eq"
	case KindContainsFold:
		return "ilike"
	case KindIn:
		return "in"
	case KindIsNull:
		return "is"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Filter is one condition on a row. Filters of a Query are AND-combined.
type Filter struct {
	Kind   FilterKind
	Field  string
	Value  any
	Values []string
	Any    []Filter // alternatives of an Or filter
}

// Eq matches rows where field equals value.
func Eq(field string, value any) Filter {
	return Filter{Kind: KindEq, Field: field, Value: value}
}

// ContainsFold matches rows where field contains substr, ignoring case.
func ContainsFold(field, substr string) Filter {
	return Filter{Kind: KindContainsFold, Field: field, Value: substr}
}

// In matches rows where field is one of values.
func In(field string, values []string) Filter {
	return Filter{Kind: KindIn, Field: field, Values: values}
}

// IsNull matches rows where field is null.
func IsNull(field string) Filter {
	return Filter{Kind: KindIsNull, Field: field}
}

// Or matches rows satisfying at least one of filters.
func Or(filters ...Filter) Filter {
	return Filter{Kind: KindOr, Any: filters}
}

// Query selects, orders and limits rows.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Where starts a query with the given filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

// Order sorts the result by field.
func (q Query) Order(field string, desc bool) Query {
	q.OrderBy = field
	q.Desc = desc

	return q
}

// Take limits the result to n rows.
func (q Query) Take(n int) Query {
	q.Limit = n

	return q
}
