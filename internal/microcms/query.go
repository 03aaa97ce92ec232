package microcms

import (
	"net/url"
	"strconv"
	"strings"
)

// OrderPublishedDesc sorts newest first.
const OrderPublishedDesc = "-publishedAt"

// Condition is a single filter predicate in microCMS syntax.
type Condition struct {
	Field    string
	Operator string
	Value    string
}

// String renders the condition as field[operator]value.
func (c Condition) String() string {
	return c.Field + "[" + c.Operator + "]" + c.Value
}

// Equals matches records whose field equals value.
func Equals(field, value string) Condition {
	return Condition{Field: field, Operator: "equals", Value: value}
}

// Contains matches records whose field contains value.
func Contains(field, value string) Condition {
	return Condition{Field: field, Operator: "contains", Value: value}
}

// Filter is a conjunction of conditions.
type Filter []Condition

// And returns a filter with c appended.
func (f Filter) And(c ...Condition) Filter {
	out := make(Filter, 0, len(f)+len(c))
	out = append(out, f...)

	return append(out, c...)
}

// String joins the conditions with [and]; an empty filter renders as "".
func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.String()
	}

	return strings.Join(parts, "[and]")
}

// Query carries list parameters for an endpoint.
type Query struct {
	Orders  string
	Filters Filter
	Limit   int
	Offset  int
}

// Values encodes the query string parameters.
func (q Query) Values() url.Values {
	v := url.Values{}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}

	if q.Orders != "" {
		v.Set("orders", q.Orders)
	}

	if len(q.Filters) > 0 {
		v.Set("filters", q.Filters.String())
	}

	return v
}
