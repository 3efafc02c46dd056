package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/openagora/agora/pkg/docstore"
	"github.com/openagora/agora/pkg/logger"
)

// keysWithPrefix enumerates the whole key space and keeps the keys under
// prefix. There is no cheaper query: cost is O(total stored documents)
// regardless of how many keys match.
func (c *consistency) keysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	keys, err := c.store.List(ctx)
	if err != nil {
		return nil, errStorageListing(err)
	}
	matched := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// scanDocument fetches and decodes one document during a scan. Listing
// is best-effort: a key that vanished between List and Get, or a
// document that no longer decodes, is skipped rather than failing the
// whole scan. Returns false when the caller should skip.
func (c *consistency) scanDocument(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, docstore.ErrKeyNotFound) {
			logger.Logger(ctx).WithField("key", key).Debug("key listed but gone, skipping")
		} else {
			logger.Logger(ctx).WithField("key", key).WithError(err).Warn("failed to fetch scanned document, skipping")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Logger(ctx).WithField("key", key).WithError(err).Warn("skipping undecodable document")
		return false
	}
	return true
}

// pageBounds clamps [offset, offset+limit) to a collection of size n.
func pageBounds(offset, limit, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
