package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/openagora/agora/pkg/common/structs"
	"github.com/openagora/agora/pkg/docstore"
	"github.com/openagora/agora/pkg/logger"
)

// TopicRepository implements forum topic creation and the sorted,
// paginated topic listings. Every listing is a full prefix scan with
// in-process filtering and sorting; no index exists between calls.
type TopicRepository struct {
	store docstore.Store
	check *consistency
	opts  Options
}

func newTopicRepository(store docstore.Store, check *consistency, opts Options) *TopicRepository {
	return &TopicRepository{store: store, check: check, opts: opts}
}

func (r *TopicRepository) Create(ctx context.Context, communityID, categoryID, title, content, creatorID string) (*structs.ForumTopic, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.topic.create")
	defer span.Finish()

	if err := r.check.validateParentChain(ctx, communityID, categoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	topic := &structs.ForumTopic{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		CategoryID:  categoryID,
		CreatorID:   creatorID,
		Title:       title,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsDeleted:   false,
	}

	if err := r.check.putDocument(ctx, TopicKey(communityID, categoryID, topic.ID), topic); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": communityID,
		"category":  categoryID,
		"topic":     topic.ID,
	}).Info("forum topic created")
	return topic, nil
}

func (r *TopicRepository) ListByCategory(ctx context.Context, communityID, categoryID string, offset, limit int) ([]structs.ForumTopic, int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.topic.list_by_category")
	defer span.Finish()

	if err := r.check.validateParentChain(ctx, communityID, categoryID); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = r.opts.TopicPageSize
	}
	if limit > r.opts.MaxTopicPageSize {
		limit = r.opts.MaxTopicPageSize
	}

	topics, err := r.collectLiveTopics(ctx, TopicCategoryPrefix(communityID, categoryID))
	if err != nil {
		return nil, 0, err
	}

	sortNewestFirst(topics)
	total := len(topics)
	start, end := pageBounds(offset, limit, total)
	return topics[start:end], total, nil
}

// ListLatest spans every category of the community. The total reports
// the community-wide live count, not the page size; offset is fixed at
// zero for this view.
func (r *TopicRepository) ListLatest(ctx context.Context, communityID string, limit int) ([]structs.ForumTopic, int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.topic.list_latest")
	defer span.Finish()

	// Only the community must exist here; topics of deleted categories
	// still surface in the community-wide feed.
	if _, err := r.check.community(ctx, communityID); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = r.opts.LatestTopicsLimit
	}
	if limit > r.opts.MaxLatestTopics {
		limit = r.opts.MaxLatestTopics
	}

	topics, err := r.collectLiveTopics(ctx, TopicCommunityPrefix(communityID))
	if err != nil {
		return nil, 0, err
	}

	sortNewestFirst(topics)
	total := len(topics)
	if limit < len(topics) {
		topics = topics[:limit]
	}
	return topics, total, nil
}

// GetByID is a point lookup without the category id, which the key
// scheme embeds but the caller doesn't know. The only way to find the
// key is to scan the entire store and decompose every key: an O(total
// documents) lookup.
func (r *TopicRepository) GetByID(ctx context.Context, communityID, topicID string) (*structs.ForumTopic, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.topic.get_by_id")
	defer span.Finish()

	keys, err := r.store.List(ctx)
	if err != nil {
		return nil, errStorageListing(err)
	}

	for _, key := range keys {
		keyCommunityID, _, keyTopicID, ok := SplitTopicKey(key)
		if !ok || keyCommunityID != communityID || keyTopicID != topicID {
			continue
		}

		var topic structs.ForumTopic
		if !r.check.scanDocument(ctx, key, &topic) {
			continue
		}
		if topic.Live() && topic.ID == topicID && topic.CommunityID == communityID {
			return &topic, nil
		}
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": communityID,
		"topic":     topicID,
	}).Debug("topic not found in key-space scan")
	return nil, errTopicNotFound(communityID, topicID)
}

// collectLiveTopics scans the prefix and keeps decodable, non-deleted
// topics.
func (r *TopicRepository) collectLiveTopics(ctx context.Context, prefix string) ([]structs.ForumTopic, error) {
	keys, err := r.check.keysWithPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	topics := make([]structs.ForumTopic, 0, len(keys))
	for _, key := range keys {
		var topic structs.ForumTopic
		if !r.check.scanDocument(ctx, key, &topic) {
			continue
		}
		if topic.Live() {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

// sortNewestFirst orders by creation time descending. Stable, so topics
// created in the same instant keep their scan order across pages.
func sortNewestFirst(topics []structs.ForumTopic) {
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].CreatedAt.After(topics[j].CreatedAt)
	})
}
