// Package inmemory provides a process-local docstore.Store backed by
// patrickmn/go-cache. It is used by tests and by embedders that don't
// need documents to survive a restart.
package inmemory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/openagora/agora/pkg/docstore"
)

// Config holds the tuning knobs for the in-memory store. Both durations
// default to "never": documents are retained until the process exits.
type Config struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// InMemoryStore implements docstore.Store on top of a go-cache instance.
type InMemoryStore struct {
	cache *gocache.Cache
}

var _ docstore.Store = (*InMemoryStore)(nil)

// NewStore creates an in-memory document store.
func NewStore(config *Config) (*InMemoryStore, error) {
	if config == nil {
		config = &Config{}
	}

	defaultExpiration := config.DefaultExpiration
	if defaultExpiration == 0 {
		defaultExpiration = gocache.NoExpiration
	}
	cleanupInterval := config.CleanupInterval

	return &InMemoryStore{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}, nil
}

// Get returns the document stored under key, or docstore.ErrKeyNotFound.
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	value, found := s.cache.Get(key)
	if !found {
		return nil, docstore.ErrKeyNotFound
	}
	doc, ok := value.([]byte)
	if !ok {
		return nil, docstore.ErrKeyNotFound
	}
	return doc, nil
}

// Put writes the document under key, overwriting any previous value.
func (s *InMemoryStore) Put(_ context.Context, key string, value []byte) error {
	// Copy so later mutations by the caller don't leak into the store.
	doc := make([]byte, len(value))
	copy(doc, value)
	s.cache.Set(key, doc, gocache.DefaultExpiration)
	return nil
}

// List returns every key currently stored. go-cache iterates its map in
// Go's randomized order, so no ordering guarantee is made.
func (s *InMemoryStore) List(_ context.Context) ([]string, error) {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	return keys, nil
}

// Delete removes a document. Not part of docstore.Store (entities are
// soft-deleted, never removed); exposed for test cleanup.
func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
