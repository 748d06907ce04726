package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"securechat/internal/models"
)

// newMessageIDLocked returns a sortable, monotonically-increasing-enough id:
// a padded timestamp plus a per-process sequence to break ties within one
// nanosecond.
func (e *Engine) newMessageIDLocked() string {
	e.msgSeq++
	return fmt.Sprintf("%020d-%06d", e.opts.Now().UTC().UnixNano(), e.msgSeq)
}

// Send appends a message from the session user to the given conversation.
// A replyTo referencing a missing or deleted message in the conversation is
// dropped silently — the reply simply renders without quoted context.
func (e *Engine) Send(conversationKey, content, replyTo string) (models.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return models.Message{}, err
	}
	if strings.TrimSpace(content) == "" {
		return models.Message{}, validationError("message content is required")
	}
	if conversationKey == "" {
		conversationKey = e.route.ActiveKey
	}
	if !e.reachableLocked(sess, conversationKey) {
		return models.Message{}, ErrAccessDenied
	}
	if roomID, ok := models.RoomIDFromKey(conversationKey); ok {
		if _, err := e.rooms.Get(roomID); err != nil {
			return models.Message{}, err
		}
	}

	msgs, err := e.messages.List()
	if err != nil {
		return models.Message{}, err
	}
	if replyTo != "" && !replyTargetExists(msgs, conversationKey, replyTo) {
		replyTo = ""
	}

	msg := models.Message{
		ID:              e.newMessageIDLocked(),
		ConversationKey: conversationKey,
		UserID:          sess.Identity.ID,
		Username:        sess.Identity.Username,
		Content:         content,
		CreatedAt:       e.opts.Now(),
		ReplyTo:         replyTo,
	}
	if err := e.messages.Append(msg); err != nil {
		return models.Message{}, err
	}

	e.notify(models.Event{Type: models.EventMessageNew, ConversationKey: conversationKey, Message: &msg})
	return msg, nil
}

func replyTargetExists(msgs []models.Message, conversationKey, replyTo string) bool {
	for _, m := range msgs {
		if m.ID == replyTo {
			return m.ConversationKey == conversationKey && !m.Deleted
		}
	}
	return false
}

// Edit replaces a message's content. Only the author may edit; editing a
// tombstoned message is a no-op.
func (e *Engine) Edit(messageID, newContent string) (models.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return models.Message{}, err
	}
	if strings.TrimSpace(newContent) == "" {
		return models.Message{}, validationError("message content is required")
	}

	msg, err := e.messages.Get(messageID)
	if err != nil {
		return models.Message{}, err
	}
	if msg.Deleted {
		return msg, nil
	}
	if msg.UserID != sess.Identity.ID {
		return models.Message{}, ErrNotAuthor
	}

	now := e.opts.Now()
	msg.Content = newContent
	msg.EditedAt = &now
	if err := e.messages.Update(msg); err != nil {
		return models.Message{}, err
	}

	e.notify(models.Event{Type: models.EventMessageEdited, ConversationKey: msg.ConversationKey, Message: &msg})
	return msg, nil
}

// Delete tombstones a message: content is cleared but the record stays so
// replies and pins referencing it still resolve. Permitted for the author
// and for admins.
func (e *Engine) Delete(messageID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return err
	}
	msg, err := e.messages.Get(messageID)
	if err != nil {
		return err
	}
	if msg.UserID != sess.Identity.ID && !sess.Identity.IsAdmin {
		return ErrNotAuthorized
	}
	if msg.Deleted {
		return nil
	}

	msg.Deleted = true
	msg.Content = ""
	if err := e.messages.Update(msg); err != nil {
		return err
	}

	e.notify(models.Event{Type: models.EventMessageDeleted, ConversationKey: msg.ConversationKey, MessageID: msg.ID})
	return nil
}

// Pin marks a message for prominent display. Admin-only; pinning an already
// pinned message is a no-op.
func (e *Engine) Pin(messageID string) error {
	return e.setPinned(messageID, true)
}

// Unpin clears a message's pinned state. Admin-only and idempotent.
func (e *Engine) Unpin(messageID string) error {
	return e.setPinned(messageID, false)
}

func (e *Engine) setPinned(messageID string, pinned bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return err
	}
	if !sess.Identity.IsAdmin {
		return ErrNotAuthorized
	}
	msg, err := e.messages.Get(messageID)
	if err != nil {
		return err
	}
	if msg.IsPinned == pinned {
		return nil
	}

	msg.IsPinned = pinned
	if pinned {
		now := e.opts.Now()
		msg.PinnedAt = &now
	} else {
		msg.PinnedAt = nil
	}
	if err := e.messages.Update(msg); err != nil {
		return err
	}

	eventType := models.EventMessagePinned
	if !pinned {
		eventType = models.EventMessageUnpinned
	}
	e.notify(models.Event{Type: eventType, ConversationKey: msg.ConversationKey, MessageID: msg.ID})
	return nil
}

// React toggles the session user's membership in the emoji's reaction set:
// reacting twice with the same emoji removes the reaction. Reacting to a
// tombstoned message is a no-op.
func (e *Engine) React(messageID, emoji string) (models.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return models.Message{}, err
	}
	if emoji == "" {
		return models.Message{}, validationError("emoji is required")
	}
	msg, err := e.messages.Get(messageID)
	if err != nil {
		return models.Message{}, err
	}
	if msg.Deleted {
		return msg, nil
	}

	userID := sess.Identity.ID
	reactors := msg.Reactions[emoji]
	idx := -1
	for i, id := range reactors {
		if id == userID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		reactors = append(reactors[:idx], reactors[idx+1:]...)
	} else {
		reactors = append(reactors, userID)
	}

	if len(reactors) == 0 {
		delete(msg.Reactions, emoji)
		if len(msg.Reactions) == 0 {
			msg.Reactions = nil
		}
	} else {
		if msg.Reactions == nil {
			msg.Reactions = make(map[string][]string)
		}
		msg.Reactions[emoji] = reactors
	}

	if err := e.messages.Update(msg); err != nil {
		return models.Message{}, err
	}

	e.notify(models.Event{Type: models.EventReaction, ConversationKey: msg.ConversationKey, MessageID: msg.ID, UserID: userID, Emoji: emoji})
	return msg, nil
}

// FilterFor returns the chronological view of the conversation for the live
// session, re-validating reachability here so a stale route can never leak
// messages to a restricted session. Tombstones are included as placeholders;
// pinned messages are additionally returned as a pin-ordered subset.
func (e *Engine) FilterFor(conversationKey string) (models.FilteredView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return models.FilteredView{}, err
	}
	if conversationKey == "" {
		conversationKey = e.route.ActiveKey
	}
	if !e.reachableLocked(sess, conversationKey) {
		return models.FilteredView{}, ErrAccessDenied
	}

	msgs, err := e.messages.List()
	if err != nil {
		return models.FilteredView{}, err
	}

	view := models.FilteredView{Messages: []models.Message{}, Pinned: []models.Message{}}
	for _, m := range msgs {
		if m.ConversationKey != conversationKey {
			continue
		}
		view.Messages = append(view.Messages, m)
		if m.IsPinned {
			view.Pinned = append(view.Pinned, m)
		}
	}
	sort.SliceStable(view.Messages, func(i, j int) bool {
		return view.Messages[i].CreatedAt.Before(view.Messages[j].CreatedAt)
	})
	sort.SliceStable(view.Pinned, func(i, j int) bool {
		return pinTime(view.Pinned[i]).Before(pinTime(view.Pinned[j]))
	})
	return view, nil
}

func pinTime(m models.Message) time.Time {
	if m.PinnedAt != nil {
		return *m.PinnedAt
	}
	return m.CreatedAt
}

// SweepRetention permanently removes general and room messages older than
// retentionHours. Direct messages are exempt. Tombstones age out like any
// other message. Returns the number of messages dropped.
func (e *Engine) SweepRetention(retentionHours int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if retentionHours < models.MinRetentionHours || retentionHours > models.MaxRetentionHours {
		return 0, validationError("retention hours out of range")
	}

	msgs, err := e.messages.List()
	if err != nil {
		return 0, err
	}

	cutoff := e.opts.Now().Add(-time.Duration(retentionHours) * time.Hour)
	kept := msgs[:0:0]
	removed := 0
	for _, m := range msgs {
		if !models.IsDMKey(m.ConversationKey) && m.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := e.messages.ReplaceAll(kept); err != nil {
		return 0, err
	}

	e.notify(models.Event{Type: models.EventSweep, Removed: removed})
	return removed, nil
}

// SweepNow runs a retention sweep with the configured (or default) hours.
func (e *Engine) SweepNow() (int, error) {
	cfg, ok, err := e.adminConfigSnapshot()
	if err != nil {
		return 0, err
	}
	if !ok {
		cfg = models.DefaultAdminConfig()
	}
	return e.SweepRetention(cfg.DefaultMessageRetentionHours)
}

func (e *Engine) adminConfigSnapshot() (models.AdminConfig, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Get()
}
