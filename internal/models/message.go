package models

import (
	"sort"
	"strings"
	"time"
)

// Conversation key prefixes. The general channel uses the bare key "general",
// rooms use "room:<id>" and direct conversations "dm:<a>:<b>" with the two
// participant ids sorted so both sides derive the same key.
const (
	GeneralKey = "general"
	roomPrefix = "room:"
	dmPrefix   = "dm:"
)

// Conversation types as exposed to the presentation layer.
const (
	ConversationGeneral = "general"
	ConversationRoom    = "room"
	ConversationDM      = "dm"
)

// RoomKey returns the conversation key for a room id.
func RoomKey(roomID string) string {
	return roomPrefix + roomID
}

// DMKey returns the canonical conversation key for a pair of users,
// independent of argument order.
func DMKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return dmPrefix + pair[0] + ":" + pair[1]
}

// RoomIDFromKey extracts the room id from a room conversation key.
func RoomIDFromKey(key string) (string, bool) {
	if strings.HasPrefix(key, roomPrefix) {
		return strings.TrimPrefix(key, roomPrefix), true
	}
	return "", false
}

// IsDMKey reports whether the key addresses a direct conversation.
func IsDMKey(key string) bool {
	return strings.HasPrefix(key, dmPrefix)
}

// DMParticipants returns the two participant ids of a DM key.
func DMParticipants(key string) (string, string, bool) {
	if !strings.HasPrefix(key, dmPrefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(key, dmPrefix), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Message is a single chat message. Deleted messages are tombstoned (content
// cleared, metadata kept) so replies referencing them still resolve; the
// retention sweep removes general/room messages permanently.
type Message struct {
	ID              string              `json:"id"`
	ConversationKey string              `json:"conversation_key"`
	UserID          string              `json:"user_id"`
	Username        string              `json:"username"`
	Content         string              `json:"content"`
	CreatedAt       time.Time           `json:"created_at"`
	EditedAt        *time.Time          `json:"edited_at,omitempty"`
	IsPinned        bool                `json:"is_pinned"`
	PinnedAt        *time.Time          `json:"pinned_at,omitempty"`
	Reactions       map[string][]string `json:"reactions,omitempty"`
	ReplyTo         string              `json:"reply_to,omitempty"`
	Deleted         bool                `json:"deleted"`
}

// FilteredView is the read-only message view for the active conversation.
// Pinned messages appear both chronologically in Messages and in Pinned,
// ordered by pin time.
type FilteredView struct {
	Messages []Message `json:"messages"`
	Pinned   []Message `json:"pinned"`
}
