// Package document is the storage port every record collection is written against.
// Implementations live in infrastructure/memory (tests, dev) and infrastructure/mongostore.
package document

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("document: not found")
	ErrDuplicate = errors.New("document: duplicate key")
)

// Document is a stored record addressed by its _id.
type Document interface {
	DocumentID() string
}

// Filter matches documents whose named fields equal the given values. Keys are the
// stored (bson) field names. Values are strings or bools.
type Filter map[string]any

// Fields is a partial update applied with $set semantics.
type Fields map[string]any

// Sort orders Find results by one field.
type Sort struct {
	Field string
	Desc  bool
}

// FindOptions tunes Find. The zero value returns documents in insertion order.
type FindOptions struct {
	Sort *Sort
}

// Store is one collection of T.
type Store[T any] interface {
	Insert(ctx context.Context, doc *T) error
	Get(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Replace(ctx context.Context, doc *T) error
	// Patch sets fields on the document with the given id and returns the updated document.
	Patch(ctx context.Context, id string, fields Fields) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Newest sorts by createdAt descending.
var Newest = FindOptions{Sort: &Sort{Field: "createdAt", Desc: true}}
