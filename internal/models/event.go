package models

// Event types broadcast to subscribed presentation clients.
const (
	EventMessageNew      = "message"
	EventMessageEdited   = "message_edited"
	EventMessageDeleted  = "message_deleted"
	EventMessagePinned   = "message_pinned"
	EventMessageUnpinned = "message_unpinned"
	EventReaction        = "reaction"
	EventRoomCreated     = "room_created"
	EventPresence        = "presence"
	EventSweep           = "retention_sweep"
)

// Event is emitted by the engine after every applied mutation and delivered
// over websocket connections. ConversationKey is empty for process-wide
// events such as presence changes and sweeps.
type Event struct {
	Type            string       `json:"type"`
	ConversationKey string       `json:"conversation_key,omitempty"`
	Message         *Message     `json:"message,omitempty"`
	MessageID       string       `json:"message_id,omitempty"`
	Room            *RoomSummary `json:"room,omitempty"`
	UserID          string       `json:"user_id,omitempty"`
	Emoji           string       `json:"emoji,omitempty"`
	Removed         int          `json:"removed,omitempty"`
}
