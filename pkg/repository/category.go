package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/openagora/agora/pkg/common/structs"
	"github.com/openagora/agora/pkg/docstore"
	"github.com/openagora/agora/pkg/logger"
)

// CategoryRepository implements forum category management. Mutations are
// restricted to the community creator; deletion is a tombstone flag.
type CategoryRepository struct {
	store docstore.Store
	check *consistency
}

func newCategoryRepository(store docstore.Store, check *consistency) *CategoryRepository {
	return &CategoryRepository{store: store, check: check}
}

func (r *CategoryRepository) Create(ctx context.Context, communityID, name, description, requesterID string) (*structs.ForumCategory, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.category.create")
	defer span.Finish()

	community, err := r.check.community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := r.check.requireAdmin(community, requesterID); err != nil {
		return nil, err
	}

	category := &structs.ForumCategory{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		IsDeleted:   false,
	}

	if err := r.check.putDocument(ctx, CategoryKey(communityID, category.ID), category); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": communityID,
		"category":  category.ID,
	}).Info("forum category created")
	return category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, communityID, categoryID, name, description, requesterID string) (*structs.ForumCategory, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.category.update")
	defer span.Finish()

	community, err := r.check.community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := r.check.requireAdmin(community, requesterID); err != nil {
		return nil, err
	}

	// liveCategory reports tombstoned categories as not found, which is
	// exactly the update contract.
	category, err := r.check.liveCategory(ctx, communityID, categoryID)
	if err != nil {
		return nil, err
	}

	// id, community_id, created_at and is_deleted stay untouched.
	category.Name = name
	category.Description = description

	if err := r.check.putDocument(ctx, CategoryKey(communityID, categoryID), category); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": communityID,
		"category":  categoryID,
	}).Info("forum category updated")
	return category, nil
}

// SoftDelete tombstones the category. Re-deleting an already deleted
// category is a success and performs no write.
func (r *CategoryRepository) SoftDelete(ctx context.Context, communityID, categoryID, requesterID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.category.soft_delete")
	defer span.Finish()

	community, err := r.check.community(ctx, communityID)
	if err != nil {
		return err
	}
	if err := r.check.requireAdmin(community, requesterID); err != nil {
		return err
	}

	var category structs.ForumCategory
	if err := r.check.getDocument(ctx, CategoryKey(communityID, categoryID), &category); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: category %s in community %s", ErrNotFound, categoryID, communityID)
		}
		return err
	}
	if category.IsDeleted {
		return nil
	}

	category.IsDeleted = true
	if err := r.check.putDocument(ctx, CategoryKey(communityID, categoryID), &category); err != nil {
		return err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"community": communityID,
		"category":  categoryID,
	}).Info("forum category soft-deleted")
	return nil
}

func (r *CategoryRepository) List(ctx context.Context, communityID string) ([]structs.ForumCategory, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "repository.category.list")
	defer span.Finish()

	if _, err := r.check.community(ctx, communityID); err != nil {
		return nil, err
	}

	keys, err := r.check.keysWithPrefix(ctx, CategoryPrefix(communityID))
	if err != nil {
		return nil, err
	}

	categories := make([]structs.ForumCategory, 0, len(keys))
	for _, key := range keys {
		var category structs.ForumCategory
		if !r.check.scanDocument(ctx, key, &category) {
			continue
		}
		if category.Live() {
			categories = append(categories, category)
		}
	}
	return categories, nil
}
