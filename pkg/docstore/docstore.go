// Package docstore defines the flat key-value document store contract the
// repositories are built on: opaque string keys, JSON document values,
// get/put/list and nothing else. No transactions, no secondary indexes,
// no ordering guarantee on List.
//
// List followed by Get is not synchronized: a key returned by List may be
// gone by the time it is fetched. Callers scanning the key space must
// treat ErrKeyNotFound from such a Get as a skippable condition.
package docstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no document exists under the key.
var ErrKeyNotFound = errors.New("docstore: key not found")

// Store is the minimal document store surface consumed by the repositories.
type Store interface {
	// Get returns the document stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes the document under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// List returns every key currently stored, in no particular order.
	List(ctx context.Context) ([]string, error)
}
