package engine

import (
	"fmt"
	"strings"

	"securechat/internal/models"
)

// CreateRoom creates a room owned by the session user, subject to the
// admin-config creation policy and per-user quota. The owner becomes the
// first member.
func (e *Engine) CreateRoom(name string, isPrivate bool, password string) (models.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return models.Room{}, err
	}
	if sess.Tier == models.TierRoom {
		return models.Room{}, ErrAccessDenied
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Room{}, validationError("room name is required")
	}
	if isPrivate && strings.TrimSpace(password) == "" {
		return models.Room{}, validationError("private rooms require a password")
	}

	cfg, ok, err := e.config.Get()
	if err != nil {
		return models.Room{}, err
	}
	if !ok {
		cfg = models.DefaultAdminConfig()
	}
	if !cfg.AllowUserRoomCreation && sess.Tier != models.TierAdmin {
		return models.Room{}, fmt.Errorf("%w: room creation is disabled", ErrNotAuthorized)
	}
	owned, err := e.rooms.CountOwnedBy(sess.Identity.ID)
	if err != nil {
		return models.Room{}, err
	}
	if owned >= cfg.MaxRoomsPerUser {
		return models.Room{}, fmt.Errorf("%w: room limit reached", ErrNotAuthorized)
	}

	room := models.Room{
		ID:        e.opts.NewID(),
		Name:      name,
		OwnerID:   sess.Identity.ID,
		IsPrivate: isPrivate,
		Password:  strings.TrimSpace(password),
		MemberIDs: []string{sess.Identity.ID},
		CreatedAt: e.opts.Now(),
	}
	if err := e.rooms.Save(room); err != nil {
		return models.Room{}, err
	}

	summary := room.Summary()
	e.notify(models.Event{Type: models.EventRoomCreated, Room: &summary})
	return room, nil
}

// joinMembershipLocked admits the user to the room: public rooms admit
// unconditionally, private rooms require an exact password match. Rejoining
// is a no-op (set semantics).
func (e *Engine) joinMembershipLocked(roomID, userID, password string) (models.Room, error) {
	room, err := e.rooms.Get(roomID)
	if err != nil {
		return models.Room{}, err
	}
	if room.IsPrivate && room.Password != password {
		return models.Room{}, ErrWrongPassword
	}
	if room.HasMember(userID) {
		return room, nil
	}
	room.MemberIDs = append(room.MemberIDs, userID)
	if err := e.rooms.Save(room); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// VisibleRooms lists the rooms the session may see: every room for admin and
// public tiers, only the assigned room for a room-tier session.
func (e *Engine) VisibleRooms() ([]models.RoomSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return nil, err
	}
	rooms, err := e.rooms.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		if sess.Tier == models.TierRoom && room.ID != sess.RestrictedToRoomID {
			continue
		}
		summaries = append(summaries, room.Summary())
	}
	return summaries, nil
}
