package engine

import "securechat/internal/models"

// ActiveRoute returns the conversation currently routed to.
func (e *Engine) ActiveRoute() Route {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.route
}

// SwitchTo moves the session to the given conversation. targetID is a room
// id for rooms, a canonical DM key for DMs, and ignored for general. A
// room-tier session may only ever be in its assigned room or in direct
// conversations.
func (e *Engine) SwitchTo(targetID, conversationType, displayName string) (Route, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return Route{}, err
	}

	if sess.Tier == models.TierRoom && conversationType != models.ConversationDM && targetID != sess.RestrictedToRoomID {
		return Route{}, ErrAccessDenied
	}

	switch conversationType {
	case models.ConversationGeneral:
		if sess.Tier == models.TierRoom {
			return Route{}, ErrAccessDenied
		}
		e.route = generalRoute()
	case models.ConversationRoom:
		room, err := e.rooms.Get(targetID)
		if err != nil {
			return Route{}, err
		}
		name := displayName
		if name == "" {
			name = room.Name
		}
		e.route = Route{ActiveKey: models.RoomKey(room.ID), ActiveType: models.ConversationRoom, ActiveName: name}
	case models.ConversationDM:
		if !e.reachableLocked(sess, targetID) {
			return Route{}, ErrAccessDenied
		}
		e.route = Route{ActiveKey: targetID, ActiveType: models.ConversationDM, ActiveName: displayName}
	default:
		return Route{}, validationError("unknown conversation type")
	}
	return e.route, nil
}

// StartDM derives the canonical conversation key for the session user and
// the peer — identical from either side — and switches to it.
func (e *Engine) StartDM(peerID string) (Route, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return Route{}, err
	}
	if peerID == "" || peerID == sess.Identity.ID {
		return Route{}, validationError("cannot start a direct conversation with yourself")
	}

	name := peerID
	users, err := e.users.List()
	if err != nil {
		return Route{}, err
	}
	for _, u := range users {
		if u.ID == peerID {
			name = u.Username
			break
		}
	}

	e.route = Route{
		ActiveKey:  models.DMKey(sess.Identity.ID, peerID),
		ActiveType: models.ConversationDM,
		ActiveName: name,
	}
	return e.route, nil
}

// JoinRoom runs the membership check for the room and, on success, switches
// the active conversation to it.
func (e *Engine) JoinRoom(roomID, password string) (Route, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.currentSessionLocked()
	if err != nil {
		return Route{}, err
	}
	if sess.Tier == models.TierRoom && roomID != sess.RestrictedToRoomID {
		return Route{}, ErrAccessDenied
	}

	room, err := e.joinMembershipLocked(roomID, sess.Identity.ID, password)
	if err != nil {
		return Route{}, err
	}

	e.route = Route{ActiveKey: models.RoomKey(room.ID), ActiveType: models.ConversationRoom, ActiveName: room.Name}
	return e.route, nil
}
