package repository

import (
	"errors"
	"fmt"
)

// Failure taxonomy returned by all repository operations. Callers match
// with errors.Is and translate to their own transport.
var (
	// ErrNotFound: the referenced community, category or topic is absent
	// or soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrConflict: the mutation contradicts current state (creator
	// joining their own community, joining twice).
	ErrConflict = errors.New("conflict")

	// ErrForbidden: a non-creator attempted an admin-only mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrStorage: the underlying store failed, or the directly addressed
	// document could not be decoded.
	ErrStorage = errors.New("storage failure")
)

func errTopicNotFound(communityID, topicID string) error {
	return fmt.Errorf("%w: topic %s in community %s", ErrNotFound, topicID, communityID)
}

func errStorageListing(err error) error {
	return fmt.Errorf("%w: list keys: %v", ErrStorage, err)
}
