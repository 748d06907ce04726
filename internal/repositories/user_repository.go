package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"securechat/internal/models"
	"securechat/internal/storage"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository abstracts identity persistence.
type UserRepository interface {
	List() ([]models.Identity, error)
	FindByUsername(username string) (models.Identity, error)
	Upsert(user models.Identity) error
	SetCurrent(user models.Identity) error
	SaveSnapshot(user models.Identity) error
	Snapshot(username string) (models.Identity, bool, error)
}

// UserRepo is a key-value backed UserRepository. The full identity list is
// stored under one key so every write replaces a consistent snapshot.
type UserRepo struct {
	store storage.Store
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(store storage.Store) *UserRepo {
	return &UserRepo{store: store}
}

// List returns all known identities in stored order.
func (r *UserRepo) List() ([]models.Identity, error) {
	data, ok, err := r.store.Get(storage.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []models.Identity
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// FindByUsername looks up an identity case-insensitively.
func (r *UserRepo) FindByUsername(username string) (models.Identity, error) {
	users, err := r.List()
	if err != nil {
		return models.Identity{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.Identity{}, ErrUserNotFound
}

// Upsert replaces the identity holding the same username (case-insensitive)
// or appends a new one, then persists the list.
func (r *UserRepo) Upsert(user models.Identity) error {
	users, err := r.List()
	if err != nil {
		return err
	}
	replaced := false
	for i, u := range users {
		if strings.EqualFold(u.Username, user.Username) {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return r.store.Set(storage.KeyUsers, data)
}

// SetCurrent records the last-active identity.
func (r *UserRepo) SetCurrent(user models.Identity) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	return r.store.Set(storage.KeyCurrentUser, data)
}

// SaveSnapshot saves the per-username identity snapshot used for fast
// re-login.
func (r *UserRepo) SaveSnapshot(user models.Identity) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	return r.store.Set(storage.SessionKey(strings.ToLower(user.Username)), data)
}

// Snapshot loads the saved identity for a username, if any.
func (r *UserRepo) Snapshot(username string) (models.Identity, bool, error) {
	data, ok, err := r.store.Get(storage.SessionKey(strings.ToLower(username)))
	if err != nil || !ok {
		return models.Identity{}, false, err
	}
	var user models.Identity
	if err := json.Unmarshal(data, &user); err != nil {
		return models.Identity{}, false, fmt.Errorf("decode user snapshot: %w", err)
	}
	return user, true, nil
}

var _ UserRepository = (*UserRepo)(nil)
