package anbima

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData marks a response body that holds no parsable rows (empty body, header only,
// or content that is not the expected CSV). The fetcher recovers from it with an empty table.
var ErrNoData = errors.New("no data")

// StatusError is returned when the endpoint answers with a non-success HTTP status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if r := []rune(body); len(r) > 200 {
		body = string(r[:200]) + "..."
	}
	return fmt.Sprintf("API status %d: %s", e.StatusCode, strings.TrimSpace(body))
}

// CastError is returned when a cell cannot be converted to its column's declared kind.
type CastError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast column %q row %d value %q: %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// SchemaError is returned when normalized columns differ from the canonical schema
// in names, order or kinds.
type SchemaError struct {
	Missing    []string
	Unexpected []string
	Misordered bool
	Kinds      []string // "column: got X, want Y"
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected columns "+strings.Join(e.Unexpected, ", "))
	}
	if e.Misordered {
		parts = append(parts, "columns out of order")
	}
	if len(e.Kinds) > 0 {
		parts = append(parts, "kind mismatch "+strings.Join(e.Kinds, "; "))
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}
