package repository

import (
	"context"

	"github.com/openagora/agora/pkg/common/structs"
)

// MembershipStatus describes a user's relation to a community.
type MembershipStatus struct {
	IsMember  bool `json:"is_member"`
	IsCreator bool `json:"is_creator"`
}

// CommunityRepositoryInterface defines the community operations.
// The interface enables mocking in tests and keeps callers off the
// concrete key-scheme mechanics.
type CommunityRepositoryInterface interface {
	// Create writes a fresh community. The creator is its initial member.
	Create(ctx context.Context, name, description, creatorID string) (*structs.Community, error)

	// Join adds userID to the community's members and refreshes the
	// member count. Returns ErrConflict when userID is the creator or is
	// already a member. The read-modify-write is not synchronized against
	// concurrent joins on the same community: two concurrent joins by
	// different users can race and the second write wins (lost update).
	Join(ctx context.Context, communityID, userID string) (*structs.Community, error)

	// MembershipStatus reports whether userID is a member and/or the
	// creator. The creator always counts as a member.
	MembershipStatus(ctx context.Context, communityID, userID string) (*MembershipStatus, error)

	// Get fetches a community by id, or ErrNotFound.
	Get(ctx context.Context, communityID string) (*structs.Community, error)

	// ListForUser returns every community the user created or joined.
	// Scans the full community key space regardless of result size.
	ListForUser(ctx context.Context, userID string) ([]structs.Community, error)

	// ListAll returns one page of community summaries plus the total
	// number of community keys found. The key list is paged before
	// fetching and carries whatever order the store's listing yields.
	ListAll(ctx context.Context, offset, limit int) ([]structs.CommunitySummary, int, error)
}

// CategoryRepositoryInterface defines the forum category operations.
// All mutations are admin-only: the requester must be the community
// creator.
type CategoryRepositoryInterface interface {
	// Create writes a new live category under the community.
	Create(ctx context.Context, communityID, name, description, requesterID string) (*structs.ForumCategory, error)

	// Update overwrites name and description of a live category.
	// Soft-deleted categories are reported as ErrNotFound.
	Update(ctx context.Context, communityID, categoryID, name, description, requesterID string) (*structs.ForumCategory, error)

	// SoftDelete tombstones a category. Idempotent: deleting an already
	// deleted category succeeds without a write.
	SoftDelete(ctx context.Context, communityID, categoryID, requesterID string) error

	// List returns the community's live categories in store-listing order.
	List(ctx context.Context, communityID string) ([]structs.ForumCategory, error)
}

// TopicRepositoryInterface defines the forum topic operations.
type TopicRepositoryInterface interface {
	// Create writes a new topic after validating that the community
	// exists and the category exists under it and is live.
	Create(ctx context.Context, communityID, categoryID, title, content, creatorID string) (*structs.ForumTopic, error)

	// ListByCategory returns one page of the category's live topics,
	// sorted by creation time descending, plus the total live count over
	// the whole category.
	ListByCategory(ctx context.Context, communityID, categoryID string, offset, limit int) ([]structs.ForumTopic, int, error)

	// ListLatest returns the newest live topics across all categories of
	// the community, plus the community-wide live count.
	ListLatest(ctx context.Context, communityID string, limit int) ([]structs.ForumTopic, int, error)

	// GetByID finds a live topic by community and topic id alone. The
	// category id is embedded in the key but unknown to the caller, so
	// this scans and decomposes every key in the store.
	GetByID(ctx context.Context, communityID, topicID string) (*structs.ForumTopic, error)
}
