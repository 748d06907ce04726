package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"securechat/internal/models"
	"securechat/internal/repositories"
	"securechat/internal/storage"
)

var errSetFailed = errors.New("store write failed")

// testEnv wires an Engine over an in-memory store with a controllable clock
// and deterministic ids.
type testEnv struct {
	eng   *Engine
	store *storage.MemoryStore
	users *repositories.UserRepo
	rooms *repositories.RoomRepo
	cfg   *repositories.ConfigRepo
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewMemoryStore()
	env := &testEnv{
		store: store,
		users: repositories.NewUserRepo(store),
		rooms: repositories.NewRoomRepo(store),
		cfg:   repositories.NewConfigRepo(store),
		now:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	idSeq := 0
	env.eng = New(
		env.users,
		env.rooms,
		repositories.NewMessageRepo(store),
		env.cfg,
		Options{
			Now: func() time.Time { return env.now },
			NewID: func() string {
				idSeq++
				return fmt.Sprintf("id-%d", idSeq)
			},
			NewColor: func() string { return "#4ECDC4" },
		},
	)
	return env
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

func (env *testEnv) loginPublic(t *testing.T, username string) models.Session {
	t.Helper()
	result, err := env.eng.Login(username, DefaultMasterPassword, models.Access{Tier: models.TierPublic})
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return result.Session
}

func (env *testEnv) logout(t *testing.T) {
	t.Helper()
	if err := env.eng.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

// createRoom creates a room as the current session user.
func (env *testEnv) createRoom(t *testing.T, name string, private bool, password string) models.Room {
	t.Helper()
	room, err := env.eng.CreateRoom(name, private, password)
	if err != nil {
		t.Fatalf("create room %s: %v", name, err)
	}
	return room
}
