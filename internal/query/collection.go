// Package query implements the generic list protocol shared by every
// resource collection: whitelisted field filters with comparison
// operators, field projection, multi-key sorting, page/limit pagination
// and batched expansion of references.
//
// A [Collection] describes which fields a resource exposes and how they
// map onto SQL columns. [Parse] turns URL query parameters into a [Spec]
// and a [Finder] executes it against PostgreSQL using squirrel.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind determines how raw parameter values are parsed and how column
// values are rendered into a [Document].
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindInteger
	KindBool
	KindTime
	// KindID is a UUID column. When Ref is set it references another
	// collection and can be expanded.
	KindID
	// KindIDSet is a many-to-many reference stored in a join table.
	KindIDSet
)

// Join describes the table backing a [KindIDSet] field.
type Join struct {
	Table string
	// OwnerColumn references the collection owning the field.
	OwnerColumn string
	// RefColumn references the target collection.
	RefColumn string
	// OrderColumn orders the set. Optional.
	OrderColumn string
}

// Field is one whitelisted attribute of a collection.
type Field struct {
	// Name is the public attribute name used in parameters and output.
	Name   string
	Column string
	Kind   Kind

	// Ref is the referenced collection for KindID and KindIDSet fields.
	Ref *Collection
	// Join is required for KindIDSet fields.
	Join *Join

	// Parse and Format override the kind defaults, e.g. for enumerations
	// stored under a different representation.
	Parse  func(raw string) (any, error)
	Format func(value any) any
}

// Collection describes a resource table and its public fields.
type Collection struct {
	Name   string
	Table  string
	Fields []Field

	// DefaultSort is used when the request has no sort parameter,
	// e.g. "-createdAt".
	DefaultSort string
}

// Field looks up a field by its public name.
func (c Collection) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IDField returns the primary key field. Every collection exposes "id".
func (c Collection) IDField() Field {
	if f, ok := c.Field("id"); ok {
		return f
	}
	return Field{Name: "id", Column: "id", Kind: KindID}
}

func (f Field) sortable() bool {
	return f.Kind != KindIDSet
}

func (f Field) parse(raw string) (any, error) {
	if f.Parse != nil {
		return f.Parse(raw)
	}

	switch f.Kind {
	case KindNumber:
		return strconv.ParseFloat(raw, 64)
	case KindInteger:
		return strconv.ParseInt(raw, 10, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, raw)
	case KindID, KindIDSet:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	default:
		return raw, nil
	}
}

// format converts a value scanned from the driver into its output form.
func (f Field) format(v any) any {
	if v == nil {
		return nil
	}
	if f.Format != nil {
		return f.Format(v)
	}

	switch f.Kind {
	case KindNumber:
		return toFloat(v)
	case KindInteger:
		return toInt(v)
	case KindID, KindString:
		return toString(v)
	default:
		return v
	}
}

func toFloat(v any) any {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case []byte:
		return toFloat(string(x))
	case string:
		if n, err := strconv.ParseFloat(x, 64); err == nil {
			return n
		}
	}
	return v
}

func toInt(v any) any {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		return toInt(string(x))
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n
		}
	}
	return v
}

func toString(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return v
}

// Document is one resource rendered as a map of public field names.
// Only selected fields are present; expanded references hold nested
// documents.
type Document map[string]any

// ID returns the "id" attribute.
func (d Document) ID() string {
	s, _ := d["id"].(string)
	return s
}

// String returns a string attribute or "" when absent.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// Float returns a numeric attribute or 0 when absent.
func (d Document) Float(key string) float64 {
	if f, ok := toFloat(d[key]).(float64); ok {
		return f
	}
	return 0
}

// RefID returns the identifier held by a reference attribute, whether
// it is still an id or has been expanded into a nested document.
func (d Document) RefID(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case Document:
		return v.ID()
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
