// Package docstore abstracts the remote document store behind the small
// surface the application actually consumes: get-by-id, equality-filter
// queries with optional ordering and limit, inserts with generated or
// explicit ids, partial updates and deletes. Every call resolves exactly
// once to a value or a classified error from pkg/errors.
package docstore

import (
	"context"
)

// Document is a raw store record. Absent fields are represented by absent
// map keys; readers treat absence as "keep the zero default".
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Filter is a single field == value constraint.
type Filter struct {
	Field string
	Value interface{}
}

// OrderBy requests server-side ordering on one field.
type OrderBy struct {
	Field string
	Desc  bool
}

// Query bundles the constraints of one collection query.
type Query struct {
	Filters []Filter
	Order   *OrderBy
	Limit   int
}

type Client interface {
	GetByID(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	Insert(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	InsertAt(ctx context.Context, collection, id string, data map[string]interface{}) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
}
