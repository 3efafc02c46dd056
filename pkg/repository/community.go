package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/openagora/agora/pkg/common/structs"
	"github.com/openagora/agora/pkg/docstore"
	"github.com/openagora/agora/pkg/logger"
)

// CommunityRepository implements community CRUD, membership and listing
// over the flat document store.
type CommunityRepository struct {
	store docstore.Store
	check *consistency
	opts  Options
}

func newCommunityRepository(store docstore.Store, check *consistency, opts Options) *CommunityRepository {
	return &CommunityRepository{store: store, check: check, opts: opts}
}

func (r *CommunityRepository) Create(ctx context.Context, name, description, creatorID string) (*structs.Community, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.community.create")
	defer span.Finish()

	community := &structs.Community{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
		MemberIds:   []string{creatorID},
		CreatedAt:   time.Now().UTC(),
	}
	refreshMemberCount(community)

	if err := r.check.putDocument(ctx, CommunityKey(community.ID), community); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": community.ID,
		"creator":   creatorID,
	}).Info("community created")
	return community, nil
}

// Join is an unguarded fetch-modify-write: concurrent joins on the same
// community can race and the last write wins, silently dropping the
// other member. Known lost-update exposure of this storage model.
func (r *CommunityRepository) Join(ctx context.Context, communityID, userID string) (*structs.Community, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.community.join")
	defer span.Finish()

	community, err := r.check.community(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if community.IsCreator(userID) {
		return nil, fmt.Errorf("%w: creator %s is already an implicit member of community %s", ErrConflict, userID, communityID)
	}
	for _, id := range community.MemberIds {
		if id == userID {
			return nil, fmt.Errorf("%w: user %s is already a member of community %s", ErrConflict, userID, communityID)
		}
	}

	community.MemberIds = append(community.MemberIds, userID)
	refreshMemberCount(community)

	if err := r.check.putDocument(ctx, CommunityKey(communityID), community); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": communityID,
		"user":      userID,
		"members":   community.MemberCount,
	}).Info("user joined community")
	return community, nil
}

func (r *CommunityRepository) MembershipStatus(ctx context.Context, communityID, userID string) (*MembershipStatus, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.community.membership_status")
	defer span.Finish()

	community, err := r.check.community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return &MembershipStatus{
		IsMember:  community.HasMember(userID),
		IsCreator: community.IsCreator(userID),
	}, nil
}

func (r *CommunityRepository) Get(ctx context.Context, communityID string) (*structs.Community, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.community.get")
	defer span.Finish()

	return r.check.community(ctx, communityID)
}

func (r *CommunityRepository) ListForUser(ctx context.Context, userID string) ([]structs.Community, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.community.list_for_user")
	defer span.Finish()

	keys, err := r.check.keysWithPrefix(ctx, CommunityKeyPrefix)
	if err != nil {
		return nil, err
	}

	communities := make([]structs.Community, 0)
	for _, key := range keys {
		var community structs.Community
		if !r.check.scanDocument(ctx, key, &community) {
			continue
		}
		if community.HasMember(userID) {
			communities = append(communities, community)
		}
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"user":    userID,
		"matched": len(communities),
		"scanned": len(keys),
	}).Debug("listed communities for user")
	return communities, nil
}

// ListAll pages the unsorted key list before fetching, so the page
// carries whatever order the store's listing yields and may shrink when
// deleted or undecodable documents are skipped post-fetch. The returned
// total counts all community keys found, pre-filter.
func (r *CommunityRepository) ListAll(ctx context.Context, offset, limit int) ([]structs.CommunitySummary, int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.community.list_all")
	defer span.Finish()

	if limit <= 0 {
		limit = r.opts.CommunityPageSize
	}
	if limit > r.opts.MaxCommunityLimit {
		limit = r.opts.MaxCommunityLimit
	}

	keys, err := r.check.keysWithPrefix(ctx, CommunityKeyPrefix)
	if err != nil {
		return nil, 0, err
	}
	total := len(keys)

	start, end := pageBounds(offset, limit, total)
	summaries := make([]structs.CommunitySummary, 0, end-start)
	for _, key := range keys[start:end] {
		// Older tooling may have tombstoned a community document; honor
		// the flag even though the repository itself never sets it.
		var doc struct {
			structs.Community
			IsDeleted bool `json:"is_deleted"`
		}
		if !r.check.scanDocument(ctx, key, &doc) {
			continue
		}
		if doc.IsDeleted {
			continue
		}
		summaries = append(summaries, doc.Summary())
	}
	return summaries, total, nil
}
