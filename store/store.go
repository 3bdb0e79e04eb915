package store

import (
	"context"
	"errors"
)

// Document is the schemaless payload of one stored record. Field absence,
// an explicit nil and an empty string are all legal representations of
// "no value"; readers go through the helpers in fields.go so engine code
// only ever sees the canonical empty string.
type Document = map[string]any

// Doc pairs a document with its stable id.
type Doc struct {
	ID   string
	Data Document
}

// Filter is a single equality predicate on a document field.
type Filter struct {
	Field string
	Value any
}

var ErrNotFound = errors.New("store: document not found")

// SnapshotFunc receives the full current result set of the subscribed
// query. Every notification carries the complete set, never a diff;
// consumers replace their local state wholesale.
type SnapshotFunc func(docs []Doc)

// ErrorFunc receives stream errors. The subscription stays registered;
// the consumer keeps its last-known snapshot.
type ErrorFunc func(err error)

// Store is the collection-scoped document contract the workflow engines
// are written against.
type Store interface {
	Create(ctx context.Context, collection string, data Document) (string, error)
	Update(ctx context.Context, collection, id string, partial Document) error
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (Doc, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Doc, error)

	// Subscribe delivers an initial snapshot and then one snapshot per
	// change to the collection. The returned func unsubscribes; it is
	// safe to call more than once.
	Subscribe(collection string, filters []Filter, onSnapshot SnapshotFunc, onError ErrorFunc) func()
}

func matches(data Document, filters []Filter) bool {
	for _, f := range filters {
		if StringField(data, f.Field) != toString(f.Value) {
			return false
		}
	}
	return true
}
