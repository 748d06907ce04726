package models

import "time"

// Room represents a named chat room. Rooms are never auto-deleted.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	IsPrivate bool      `json:"is_private"`
	Password  string    `json:"password,omitempty"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether userID is in the room's member set.
func (r Room) HasMember(userID string) bool {
	for _, id := range r.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RoomSummary is the API-friendly view of a room without its password.
type RoomSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"owner_id"`
	IsPrivate   bool      `json:"is_private"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary strips the room down to what the presentation layer may see.
func (r Room) Summary() RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		OwnerID:     r.OwnerID,
		IsPrivate:   r.IsPrivate,
		MemberCount: len(r.MemberIDs),
		CreatedAt:   r.CreatedAt,
	}
}
