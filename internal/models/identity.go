package models

import "time"

// Status values for an identity's presence.
const (
	StatusOnline  = "online"
	StatusAway    = "away"
	StatusOffline = "offline"
)

// Identity represents a chat user. Identities are never hard-deleted; logging
// in again with the same username restores the prior identity.
type Identity struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
	LastSeen time.Time `json:"last_seen"`
	Status   string    `json:"status"`
	IsAdmin  bool      `json:"is_admin"`
}

// Tier is the access level attached to a live session.
type Tier string

const (
	TierPublic Tier = "public"
	TierRoom   Tier = "room"
	TierAdmin  Tier = "admin"
)

// Access is the result of classifying a submitted secret.
type Access struct {
	Tier   Tier   `json:"tier"`
	RoomID string `json:"room_id,omitempty"`
}

// Session holds the authenticated identity for the process lifetime. It is
// never persisted; a restart requires re-authentication.
// RestrictedToRoomID is set iff Tier == TierRoom.
type Session struct {
	Identity           Identity `json:"identity"`
	Tier               Tier     `json:"tier"`
	RestrictedToRoomID string   `json:"restricted_to_room_id,omitempty"`
}
