package structs

import "time"

// Community is the stored community document. MemberCount is derived
// from MemberIds and must be recomputed on every membership mutation.
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	MemberIds   []string  `json:"member_ids"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommunitySummary is the discovery-listing shape of a community.
type CommunitySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"member_count"`
}

func (c *Community) IsCreator(userID string) bool {
	return c.CreatorID == userID
}

// HasMember reports membership. The creator is always treated as a
// member, whether or not they appear in MemberIds.
func (c *Community) HasMember(userID string) bool {
	if c.IsCreator(userID) {
		return true
	}
	for _, id := range c.MemberIds {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Community) Summary() CommunitySummary {
	return CommunitySummary{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		MemberCount: len(c.MemberIds),
	}
}
