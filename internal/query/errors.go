package query

import "errors"

var (
	// ErrUnknownField is returned for parameters naming a field that the
	// collection does not whitelist.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownOperator is returned for bracket suffixes other than
	// gt, gte, lt, lte and in, or for operators the field kind does not
	// support.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrInvalidValue is returned when a parameter value cannot be parsed
	// according to the field kind.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotFound is returned by [Finder.FindOne] when no document matches.
	ErrNotFound = errors.New("resource not found")
)
