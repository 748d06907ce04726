package engine

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"securechat/internal/models"
	"securechat/internal/repositories"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Session models.Session
	Welcome string
}

// Login binds a username to the tier classified from the submitted secret
// and establishes the process session.
//
// The reserved admin username takes a special path: before any admin config
// exists the call fails with ErrAdminSetupRequired (the caller must run
// SetupAdmin); afterwards the same secret must also match the stored admin
// password or the login is denied outright, never silently downgraded.
//
// An existing identity with the same username (case-insensitive) is reused —
// id, color and joinedAt survive — so returning users keep their history. A
// username held by another online identity is rejected with ErrUsernameTaken.
func (e *Engine) Login(username, secret string, access models.Access) (LoginResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := strings.TrimSpace(username)
	if len(name) < 2 {
		return LoginResult{}, validationError("username must be at least 2 characters")
	}
	if len(name) > 20 {
		return LoginResult{}, validationError("username must be at most 20 characters")
	}

	isAdmin := e.isReservedAdmin(name)
	if isAdmin {
		cfg, ok, err := e.config.Get()
		if err != nil {
			return LoginResult{}, err
		}
		if !ok {
			return LoginResult{}, ErrAdminSetupRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(secret)) != nil {
			return LoginResult{}, ErrDenied
		}
		access = models.Access{Tier: models.TierAdmin}
	}

	now := e.opts.Now()
	identity, err := e.resolveIdentityLocked(name, isAdmin)
	if err != nil {
		return LoginResult{}, err
	}
	if err := e.releaseSessionLocked(); err != nil {
		return LoginResult{}, err
	}
	identity.LastSeen = now
	identity.Status = models.StatusOnline
	if isAdmin {
		identity.IsAdmin = true
	}

	if err := e.persistIdentityLocked(identity); err != nil {
		return LoginResult{}, err
	}

	sess := models.Session{Identity: identity, Tier: access.Tier}
	if access.Tier == models.TierRoom {
		sess.RestrictedToRoomID = access.RoomID
	}
	e.session = &sess
	if err := e.resetRouteLocked(sess); err != nil {
		e.session = nil
		return LoginResult{}, err
	}

	e.notify(models.Event{Type: models.EventPresence, UserID: identity.ID})
	return LoginResult{Session: sess, Welcome: e.welcomeLocked()}, nil
}

// resolveIdentityLocked restores the saved identity for the username, falls
// back to the identity list, or mints a fresh one.
func (e *Engine) resolveIdentityLocked(name string, isAdmin bool) (models.Identity, error) {
	now := e.opts.Now()

	if snap, ok, err := e.users.Snapshot(name); err != nil {
		return models.Identity{}, err
	} else if ok {
		return snap, nil
	}

	existing, err := e.users.FindByUsername(name)
	switch {
	case err == nil:
		if existing.Status == models.StatusOnline {
			return models.Identity{}, ErrUsernameTaken
		}
		return existing, nil
	case errors.Is(err, repositories.ErrUserNotFound):
		color := e.opts.NewColor()
		if isAdmin {
			color = adminColor
		}
		return models.Identity{
			ID:       e.opts.NewID(),
			Username: name,
			Color:    color,
			JoinedAt: now,
			IsAdmin:  isAdmin,
		}, nil
	default:
		return models.Identity{}, err
	}
}

func (e *Engine) persistIdentityLocked(identity models.Identity) error {
	if err := e.users.Upsert(identity); err != nil {
		return err
	}
	if err := e.users.SetCurrent(identity); err != nil {
		return err
	}
	return e.users.SaveSnapshot(identity)
}

func (e *Engine) resetRouteLocked(sess models.Session) error {
	if sess.Tier != models.TierRoom {
		e.route = generalRoute()
		return nil
	}
	room, err := e.rooms.Get(sess.RestrictedToRoomID)
	if err != nil {
		return err
	}
	e.route = Route{
		ActiveKey:  models.RoomKey(room.ID),
		ActiveType: models.ConversationRoom,
		ActiveName: room.Name,
	}
	return nil
}

func (e *Engine) welcomeLocked() string {
	cfg, ok, err := e.config.Get()
	if err != nil || !ok {
		return models.DefaultAdminConfig().WelcomeMessage
	}
	return cfg.WelcomeMessage
}

// SetupAdmin completes the one-time admin bootstrap: it creates the admin
// config with the given password and logs the admin identity in. Fails once
// a config already exists.
func (e *Engine) SetupAdmin(password string) (LoginResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok, err := e.config.Get(); err != nil {
		return LoginResult{}, err
	} else if ok {
		return LoginResult{}, ErrNotAuthorized
	}
	if len(strings.TrimSpace(password)) < 6 {
		return LoginResult{}, validationError("admin password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return LoginResult{}, err
	}
	cfg := models.DefaultAdminConfig()
	cfg.AdminPasswordHash = string(hash)
	if err := e.config.Save(cfg); err != nil {
		return LoginResult{}, err
	}

	now := e.opts.Now()
	identity, err := e.resolveIdentityLocked(e.opts.AdminUsername, true)
	if err != nil {
		return LoginResult{}, err
	}
	if err := e.releaseSessionLocked(); err != nil {
		return LoginResult{}, err
	}
	identity.LastSeen = now
	identity.Status = models.StatusOnline
	identity.IsAdmin = true
	if err := e.persistIdentityLocked(identity); err != nil {
		return LoginResult{}, err
	}

	sess := models.Session{Identity: identity, Tier: models.TierAdmin}
	e.session = &sess
	e.route = generalRoute()

	e.notify(models.Event{Type: models.EventPresence, UserID: identity.ID})
	return LoginResult{Session: sess, Welcome: cfg.WelcomeMessage}, nil
}

// Authenticate classifies the secret and logs the username in. The reserved
// admin username skips classification because its password lives in the
// admin config, not in the secret classifier.
func (e *Engine) Authenticate(username, secret string) (LoginResult, error) {
	name := strings.TrimSpace(username)
	if e.isReservedAdmin(name) {
		return e.Login(name, secret, models.Access{})
	}
	access, err := e.Classify(secret)
	if err != nil {
		return LoginResult{}, err
	}
	return e.Login(name, secret, access)
}

// Logout marks the identity offline and clears the in-memory session.
// Idempotent when no session is active.
func (e *Engine) Logout() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.releaseSessionLocked(); err != nil {
		return err
	}
	e.route = generalRoute()
	return nil
}

// releaseSessionLocked runs the offline transition on the live session, if
// any. Logins that replace a session go through here too, so the replaced
// identity never lingers online.
func (e *Engine) releaseSessionLocked() error {
	if e.session == nil {
		return nil
	}
	identity := e.session.Identity
	identity.Status = models.StatusOffline
	identity.LastSeen = e.opts.Now()

	if err := e.persistIdentityLocked(identity); err != nil {
		return err
	}
	e.session = nil
	e.notify(models.Event{Type: models.EventPresence, UserID: identity.ID})
	return nil
}

// Users returns all known identities.
func (e *Engine) Users() ([]models.Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.users.List()
}

// OnlineUserCount counts identities currently marked online.
func (e *Engine) OnlineUserCount() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	users, err := e.users.List()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, u := range users {
		if u.Status == models.StatusOnline {
			count++
		}
	}
	return count, nil
}
