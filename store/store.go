// Package store is the document store client. Handlers only ever see the
// Store interface: find one, find many, create. Nothing is updated or deleted.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	Users  = "users"
	Wagers = "wagers"
	Agris  = "agris"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// UniqueFields lists, per collection, the fields backed by a unique index.
// The index is the only guard against duplicates.
var UniqueFields = map[string][]string{
	Users:  {"email"},
	Wagers: {"email"},
	Agris:  {"email"},
}

type Store interface {
	// FindOne decodes the first match into out or returns ErrNotFound.
	FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error
	// Find decodes every match into out, a pointer to a slice. No matches
	// leave an empty, non-nil slice.
	Find(ctx context.Context, collection string, filter bson.M, out interface{}) error
	// Create inserts record or returns ErrDuplicate on a unique field clash.
	Create(ctx context.Context, collection string, record interface{}) error
}
