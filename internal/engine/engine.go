package engine

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"securechat/internal/models"
	"securechat/internal/repositories"
)

// DefaultMasterPassword grants public-tier access.
const DefaultMasterPassword = "SecureChat2024"

// DefaultAdminUsername is the reserved admin username.
const DefaultAdminUsername = "admin"

const adminColor = "#FF6B6B"

var identityColors = []string{
	"#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD",
	"#74B9FF", "#A29BFE", "#FD79A8", "#55E6C1", "#F8A5C2",
}

// Options are the injected capabilities and secrets the engine runs with.
// Zero values fall back to production defaults.
type Options struct {
	MasterPassword string
	AdminUsername  string
	Now            func() time.Time
	NewID          func() string
	NewColor       func() string
}

// Route is the conversation the presentation layer currently renders.
type Route struct {
	ActiveKey  string `json:"active_key"`
	ActiveType string `json:"active_type"`
	ActiveName string `json:"active_name"`
}

func generalRoute() Route {
	return Route{
		ActiveKey:  models.GeneralKey,
		ActiveType: models.ConversationGeneral,
		ActiveName: "General Chat",
	}
}

// Engine is the session/access/message core. All operations run to
// completion under one mutex, so the in-memory store is mutated as a single
// logical resource and background sweeps never interleave with user actions.
type Engine struct {
	mu sync.Mutex

	users    repositories.UserRepository
	rooms    repositories.RoomRepository
	messages repositories.MessageRepository
	config   repositories.ConfigRepository

	opts Options

	session *models.Session
	route   Route

	observers []func(models.Event)
	msgSeq    uint64
}

// New builds an Engine over the given repositories.
func New(users repositories.UserRepository, rooms repositories.RoomRepository, messages repositories.MessageRepository, config repositories.ConfigRepository, opts Options) *Engine {
	if opts.MasterPassword == "" {
		opts.MasterPassword = DefaultMasterPassword
	}
	if opts.AdminUsername == "" {
		opts.AdminUsername = DefaultAdminUsername
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.NewColor == nil {
		opts.NewColor = func() string {
			return identityColors[rand.Intn(len(identityColors))]
		}
	}
	return &Engine{
		users:    users,
		rooms:    rooms,
		messages: messages,
		config:   config,
		opts:     opts,
		route:    generalRoute(),
	}
}

// Subscribe registers an observer for engine events. Observers run on the
// mutating goroutine and must not call back into the engine.
func (e *Engine) Subscribe(fn func(models.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

func (e *Engine) notify(ev models.Event) {
	for _, fn := range e.observers {
		fn(ev)
	}
}

func (e *Engine) isReservedAdmin(username string) bool {
	return strings.EqualFold(strings.TrimSpace(username), e.opts.AdminUsername)
}

// currentSessionLocked returns the live session or ErrNoSession.
func (e *Engine) currentSessionLocked() (models.Session, error) {
	if e.session == nil {
		return models.Session{}, ErrNoSession
	}
	return *e.session, nil
}

// CurrentSession returns the live session, if any.
func (e *Engine) CurrentSession() (models.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return models.Session{}, false
	}
	return *e.session, true
}

// CanAccess reports whether the live session may reach the conversation.
// False when no session is active.
func (e *Engine) CanAccess(conversationKey string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return false
	}
	return e.reachableLocked(*e.session, conversationKey)
}

// reachableLocked reports whether the session's tier may read or write the
// conversation. Room-tier sessions reach only their assigned room and DMs;
// DM conversations are reachable only to their two participants.
func (e *Engine) reachableLocked(sess models.Session, key string) bool {
	if key == models.GeneralKey {
		return sess.Tier != models.TierRoom
	}
	if roomID, ok := models.RoomIDFromKey(key); ok {
		if sess.Tier == models.TierRoom {
			return roomID == sess.RestrictedToRoomID
		}
		return true
	}
	if a, b, ok := models.DMParticipants(key); ok {
		return sess.Identity.ID == a || sess.Identity.ID == b
	}
	return false
}
