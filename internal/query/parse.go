package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Operator is a comparison applied by a filter condition.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

const (
	paramSelect = "select"
	paramSort   = "sort"
	paramPage   = "page"
	paramLimit  = "limit"
)

// filterKey matches "field" or "field[op]". The operator is only
// recognised as the complete bracket suffix of the key.
var filterKey = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)(?:\[([A-Za-z]+)\])?$`)

var operators = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// Condition restricts a field with an operator. Values holds one value
// for comparisons and any number for OpIn.
type Condition struct {
	Field  Field
	Op     Operator
	Values []any
}

// SortKey orders results by a field.
type SortKey struct {
	Field Field
	Desc  bool
}

// Expansion replaces a reference field by the referenced document,
// restricted to Select when non-empty.
type Expansion struct {
	Path   string
	Select []string
}

// Spec is a parsed list request.
type Spec struct {
	Conditions []Condition
	// Select lists public field names to return. Empty means all.
	Select []string
	Sort   []SortKey
	Page   int
	// Limit of 0 disables pagination.
	Limit    int
	Populate []Expansion
}

// Skip returns the number of documents preceding the requested page.
func (s Spec) Skip() int {
	if s.Limit <= 0 || s.Page <= 1 {
		return 0
	}
	return (s.Page - 1) * s.Limit
}

// Parse converts URL query parameters into a [Spec] for collection c.
//
// Every parameter other than select, sort, page and limit is a filter.
// Unknown fields and operators are rejected with [ErrUnknownField] and
// [ErrUnknownOperator]; values that do not parse under the field kind are
// rejected with [ErrInvalidValue].
func Parse(c Collection, params url.Values) (Spec, error) {
	spec := Spec{Page: DefaultPage, Limit: DefaultLimit}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		switch key {
		case paramSelect, paramSort, paramPage, paramLimit:
			continue
		}

		cond, err := parseCondition(c, key, params[key])
		if err != nil {
			return Spec{}, err
		}
		spec.Conditions = append(spec.Conditions, cond)
	}

	if raw := params.Get(paramSelect); raw != "" {
		fields, err := parseSelect(c, raw)
		if err != nil {
			return Spec{}, err
		}
		spec.Select = fields
	}

	if raw := params.Get(paramSort); raw != "" {
		keys, err := ParseSort(c, raw)
		if err != nil {
			return Spec{}, err
		}
		spec.Sort = keys
	}

	spec.Page = positiveInt(params.Get(paramPage), DefaultPage)
	spec.Limit = min(positiveInt(params.Get(paramLimit), DefaultLimit), MaxLimit)
	if spec.Page > math.MaxInt/spec.Limit {
		return Spec{}, fmt.Errorf("%w: page %d", ErrInvalidValue, spec.Page)
	}

	return spec, nil
}

func parseCondition(c Collection, key string, raw []string) (Condition, error) {
	m := filterKey.FindStringSubmatch(key)
	if m == nil {
		return Condition{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	field, ok := c.Field(m[1])
	if !ok {
		return Condition{}, fmt.Errorf("%w: %s", ErrUnknownField, m[1])
	}

	op := OpEq
	if m[2] != "" {
		if op, ok = operators[m[2]]; !ok {
			return Condition{}, fmt.Errorf("%w: %s", ErrUnknownOperator, m[2])
		}
	}

	var rawValues []string
	switch op {
	case OpIn:
		for _, r := range raw {
			rawValues = append(rawValues, splitList(r)...)
		}
	case OpEq:
		rawValues = raw
		if len(raw) > 1 {
			op = OpIn
		}
	default:
		if field.Kind == KindBool || field.Kind == KindIDSet {
			return Condition{}, fmt.Errorf("%w: %s on %s", ErrUnknownOperator, m[2], field.Name)
		}
		rawValues = raw[len(raw)-1:]
	}

	cond := Condition{Field: field, Op: op, Values: make([]any, 0, len(rawValues))}
	for _, r := range rawValues {
		v, err := field.parse(r)
		if err != nil {
			return Condition{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, field.Name, r)
		}
		cond.Values = append(cond.Values, v)
	}

	return cond, nil
}

func parseSelect(c Collection, raw string) ([]string, error) {
	names := splitList(raw)
	for _, name := range names {
		if _, ok := c.Field(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	return names, nil
}

// ParseSort parses a comma separated sort expression such as
// "-year,month". A leading "-" sorts descending.
func ParseSort(c Collection, raw string) ([]SortKey, error) {
	var keys []SortKey
	for _, name := range splitList(raw) {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")

		field, ok := c.Field(name)
		if !ok || !field.sortable() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		keys = append(keys, SortKey{Field: field, Desc: desc})
	}
	return keys, nil
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
