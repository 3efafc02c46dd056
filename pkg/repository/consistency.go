package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openagora/agora/pkg/common/structs"
	"github.com/openagora/agora/pkg/docstore"
)

// consistency is the cross-entity coordinator: the store enforces no
// referential integrity, so parent existence, tombstones and ownership
// are re-verified here from freshly fetched documents on every call.
// It holds no state beyond the store handle.
type consistency struct {
	store docstore.Store
}

func newConsistency(store docstore.Store) *consistency {
	return &consistency{store: store}
}

// community fetches a live community document or reports ErrNotFound.
func (c *consistency) community(ctx context.Context, communityID string) (*structs.Community, error) {
	var community structs.Community
	if err := c.getDocument(ctx, CommunityKey(communityID), &community); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: community %s", ErrNotFound, communityID)
		}
		return nil, err
	}
	return &community, nil
}

// requireAdmin ensures the requester is the community creator.
func (c *consistency) requireAdmin(community *structs.Community, requesterID string) error {
	if !community.IsCreator(requesterID) {
		return fmt.Errorf("%w: user %s is not an admin of community %s", ErrForbidden, requesterID, community.ID)
	}
	return nil
}

// liveCategory fetches a category under the community and rejects
// tombstoned ones. Soft-deleted parents read as absent.
func (c *consistency) liveCategory(ctx context.Context, communityID, categoryID string) (*structs.ForumCategory, error) {
	var category structs.ForumCategory
	if err := c.getDocument(ctx, CategoryKey(communityID, categoryID), &category); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s in community %s", ErrNotFound, categoryID, communityID)
		}
		return nil, err
	}
	if category.IsDeleted {
		return nil, fmt.Errorf("%w: category %s in community %s", ErrNotFound, categoryID, communityID)
	}
	return &category, nil
}

// validateParentChain verifies community -> live category before any
// topic read or write is considered valid.
func (c *consistency) validateParentChain(ctx context.Context, communityID, categoryID string) error {
	if _, err := c.community(ctx, communityID); err != nil {
		return err
	}
	if _, err := c.liveCategory(ctx, communityID, categoryID); err != nil {
		return err
	}
	return nil
}

// refreshMemberCount re-derives the denormalized aggregate. Must run
// after every membership mutation, before the write-back.
func refreshMemberCount(community *structs.Community) {
	community.MemberCount = len(community.MemberIds)
}

// getDocument fetches and decodes the directly addressed document.
// Absence maps to ErrNotFound; a store failure or an undecodable
// document maps to ErrStorage.
func (c *consistency) getDocument(ctx context.Context, key string, out interface{}) error {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, docstore.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: get %s: %v", ErrStorage, key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrStorage, key, err)
	}
	return nil
}

// putDocument encodes and writes a document.
func (c *consistency) putDocument(ctx context.Context, key string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, key, err)
	}
	if err := c.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrStorage, key, err)
	}
	return nil
}
