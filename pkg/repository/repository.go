// Package repository makes a flat get/put/list document store behave
// like a multi-entity system: parent/child scoping through the key
// scheme, soft deletes as tombstone flags, derived aggregates and
// paginated sorted listings, all built from full key-space scans.
//
// NOTE: the repositories do NOT synchronize writers. Every mutation is
// an unguarded read-modify-write of a whole document; concurrent writers
// to the same document can lose each other's updates. Callers needing
// isolation must serialize externally.
package repository

import (
	"github.com/openagora/agora/pkg/docstore"
)

// Repository bundles the per-entity repositories over one document store.
type Repository struct {
	Community CommunityRepositoryInterface
	Category  CategoryRepositoryInterface
	Topic     TopicRepositoryInterface
}

// Options bounds the listing operations. Zero values fall back to the
// defaults below.
type Options struct {
	TopicPageSize     int
	MaxTopicPageSize  int
	LatestTopicsLimit int
	MaxLatestTopics   int
	CommunityPageSize int
	MaxCommunityLimit int
}

// DefaultOptions returns the pagination bounds used when none are given.
func DefaultOptions() Options {
	return Options{
		TopicPageSize:     20,
		MaxTopicPageSize:  100,
		LatestTopicsLimit: 10,
		MaxLatestTopics:   50,
		CommunityPageSize: 20,
		MaxCommunityLimit: 100,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.TopicPageSize <= 0 {
		o.TopicPageSize = defaults.TopicPageSize
	}
	if o.MaxTopicPageSize <= 0 {
		o.MaxTopicPageSize = defaults.MaxTopicPageSize
	}
	if o.LatestTopicsLimit <= 0 {
		o.LatestTopicsLimit = defaults.LatestTopicsLimit
	}
	if o.MaxLatestTopics <= 0 {
		o.MaxLatestTopics = defaults.MaxLatestTopics
	}
	if o.CommunityPageSize <= 0 {
		o.CommunityPageSize = defaults.CommunityPageSize
	}
	if o.MaxCommunityLimit <= 0 {
		o.MaxCommunityLimit = defaults.MaxCommunityLimit
	}
	return o
}

// New creates a Repository with default pagination bounds.
func New(store docstore.Store) *Repository {
	return NewWithOptions(store, DefaultOptions())
}

// NewWithOptions creates a Repository with explicit pagination bounds.
func NewWithOptions(store docstore.Store, opts Options) *Repository {
	opts = opts.withDefaults()
	check := newConsistency(store)
	return &Repository{
		Community: newCommunityRepository(store, check, opts),
		Category:  newCategoryRepository(store, check),
		Topic:     newTopicRepository(store, check, opts),
	}
}

// Compile-time interface compliance checks
var (
	_ CommunityRepositoryInterface = (*CommunityRepository)(nil)
	_ CategoryRepositoryInterface  = (*CategoryRepository)(nil)
	_ TopicRepositoryInterface     = (*TopicRepository)(nil)
)
