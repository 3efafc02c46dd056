package structs

import "time"

// ForumCategory is the stored category document. Categories are never
// physically removed; IsDeleted tombstones them.
type ForumCategory struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsDeleted   bool      `json:"is_deleted"`
}

// ForumTopic is the stored topic document.
type ForumTopic struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	CategoryID  string    `json:"category_id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsDeleted   bool      `json:"is_deleted"`
}

func (c *ForumCategory) Live() bool {
	return !c.IsDeleted
}

func (t *ForumTopic) Live() bool {
	return !t.IsDeleted
}
