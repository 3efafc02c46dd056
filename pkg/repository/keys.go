package repository

import "strings"

// Storage key scheme. The formats below are a load-bearing external
// contract: migration and inspection tooling decomposes keys by these
// prefixes and separators.
//
//	community:     community-{communityId}
//	forum category: fcategory_{communityId}_{categoryId}
//	forum topic:    forumtopic_{communityId}_{categoryId}_{topicId}
//
// Identifiers must not contain "-" or "_" in positions that would confuse
// decomposition; UUIDs satisfy this. This is a precondition on callers,
// not validated here.
const (
	CommunityKeyPrefix = "community-"
	categoryKeyKind    = "fcategory"
	topicKeyKind       = "forumtopic"
	keySeparator       = "_"
)

// CommunityKey returns the storage key of a community document.
func CommunityKey(communityID string) string {
	return CommunityKeyPrefix + communityID
}

// CategoryKey returns the storage key of a forum category document.
func CategoryKey(communityID, categoryID string) string {
	return categoryKeyKind + keySeparator + communityID + keySeparator + categoryID
}

// CategoryPrefix bounds the category collection of one community.
func CategoryPrefix(communityID string) string {
	return categoryKeyKind + keySeparator + communityID + keySeparator
}

// TopicKey returns the storage key of a forum topic document.
func TopicKey(communityID, categoryID, topicID string) string {
	return topicKeyKind + keySeparator + communityID + keySeparator + categoryID + keySeparator + topicID
}

// TopicCategoryPrefix bounds the topic collection of one category.
func TopicCategoryPrefix(communityID, categoryID string) string {
	return topicKeyKind + keySeparator + communityID + keySeparator + categoryID + keySeparator
}

// TopicCommunityPrefix bounds all topics of a community, spanning its
// categories.
func TopicCommunityPrefix(communityID string) string {
	return topicKeyKind + keySeparator + communityID + keySeparator
}

// SplitTopicKey decomposes a topic key into its parent identifiers.
// A topic key has exactly four separator-delimited segments; anything
// else is not a topic key.
func SplitTopicKey(key string) (communityID, categoryID, topicID string, ok bool) {
	parts := strings.Split(key, keySeparator)
	if len(parts) != 4 || parts[0] != topicKeyKind {
		return "", "", "", false
	}
	return parts[1], parts[2], parts[3], true
}
