package domain

import "errors"

// Taxonomy errors raised by the reporting engine. They indicate caller
// mistakes and are never retried; absence of data is not an error.
var (
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrInvalidFilter        = errors.New("invalid filter combination")
	ErrUnknownGroupingLevel = errors.New("unknown grouping level")
)
