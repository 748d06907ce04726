package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securechat/internal/models"
)

func TestLoginEstablishesPublicSession(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.eng.Authenticate("alice", DefaultMasterPassword)
	require.NoError(t, err)
	require.Equal(t, models.TierPublic, result.Session.Tier)
	require.Equal(t, "alice", result.Session.Identity.Username)
	require.Equal(t, models.StatusOnline, result.Session.Identity.Status)
	require.Equal(t, models.DefaultAdminConfig().WelcomeMessage, result.Welcome)

	route := env.eng.ActiveRoute()
	require.Equal(t, models.GeneralKey, route.ActiveKey)
}

func TestLoginUsernameLengthValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.Authenticate("a", DefaultMasterPassword)
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.eng.Authenticate("this-username-is-way-too-long", DefaultMasterPassword)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthenticateUnknownSecretDenied(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.Authenticate("alice", "wrong")
	require.ErrorIs(t, err, ErrDenied)

	_, ok := env.eng.CurrentSession()
	require.False(t, ok)
}

func TestLoginRestoresSavedIdentity(t *testing.T) {
	env := newTestEnv(t)

	first := env.loginPublic(t, "alice")
	env.logout(t)
	env.advance(time.Hour)
	second := env.loginPublic(t, "alice")

	require.Equal(t, first.Identity.ID, second.Identity.ID)
	require.Equal(t, first.Identity.Color, second.Identity.Color)
	require.Equal(t, first.Identity.JoinedAt, second.Identity.JoinedAt)
	require.True(t, second.Identity.LastSeen.After(first.Identity.LastSeen))
}

func TestLoginUsernameTakenByOnlineUser(t *testing.T) {
	env := newTestEnv(t)

	// A user known to the shared list but without a saved snapshot, as
	// happens when another instance wrote the list.
	require.NoError(t, env.users.Upsert(models.Identity{
		ID:       "other-1",
		Username: "bob",
		Status:   models.StatusOnline,
	}))

	_, err := env.eng.Authenticate("bob", DefaultMasterPassword)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginReusesOfflineIdentityFromList(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.users.Upsert(models.Identity{
		ID:       "carol-1",
		Username: "carol",
		Color:    "#45B7D1",
		Status:   models.StatusOffline,
	}))

	sess := env.loginPublic(t, "carol")
	require.Equal(t, "carol-1", sess.Identity.ID)
	require.Equal(t, "#45B7D1", sess.Identity.Color)
}

func TestAdminLoginBeforeSetupRequired(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.Authenticate("admin", "whatever")
	require.ErrorIs(t, err, ErrAdminSetupRequired)
}

func TestAdminSetupFlow(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.eng.SetupAdmin("secret123")
	require.NoError(t, err)
	require.Equal(t, models.TierAdmin, result.Session.Tier)
	require.True(t, result.Session.Identity.IsAdmin)
	require.Equal(t, "admin", result.Session.Identity.Username)

	// Bootstrap is one-time.
	_, err = env.eng.SetupAdmin("another66")
	require.ErrorIs(t, err, ErrNotAuthorized)

	env.logout(t)

	_, err = env.eng.Authenticate("admin", "wrong-password")
	require.ErrorIs(t, err, ErrDenied)

	relogin, err := env.eng.Authenticate("admin", "secret123")
	require.NoError(t, err)
	require.Equal(t, models.TierAdmin, relogin.Session.Tier)
	require.Equal(t, result.Session.Identity.ID, relogin.Session.Identity.ID)
}

func TestAdminSetupShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.SetupAdmin("short")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAdminNeverDowngradedToPublic(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.SetupAdmin("secret123")
	require.NoError(t, err)
	env.logout(t)

	// The master password is not the admin password; the reserved username
	// must not fall through to a public session.
	_, err = env.eng.Authenticate("admin", DefaultMasterPassword)
	require.ErrorIs(t, err, ErrDenied)
}

func TestLogoutMarksOfflineAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.eng.Logout())

	sess := env.loginPublic(t, "alice")
	env.advance(time.Minute)
	env.logout(t)

	_, ok := env.eng.CurrentSession()
	require.False(t, ok)

	users, err := env.eng.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, sess.Identity.ID, users[0].ID)
	require.Equal(t, models.StatusOffline, users[0].Status)

	// Logging out twice stays a no-op.
	require.NoError(t, env.eng.Logout())
}

func TestLoginReplacingSessionMarksOldIdentityOffline(t *testing.T) {
	env := newTestEnv(t)

	alice := env.loginPublic(t, "alice")
	env.advance(time.Minute)

	// A second login without a logout replaces the live session; the
	// replaced identity must take the offline transition.
	bob := env.loginPublic(t, "bob")
	require.NotEqual(t, alice.Identity.ID, bob.Identity.ID)

	users, err := env.eng.Users()
	require.NoError(t, err)
	byID := make(map[string]models.Identity, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	require.Equal(t, models.StatusOffline, byID[alice.Identity.ID].Status)
	require.Equal(t, env.now, byID[alice.Identity.ID].LastSeen)
	require.Equal(t, models.StatusOnline, byID[bob.Identity.ID].Status)

	count, err := env.eng.OnlineUserCount()
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRoomTierLoginRoutesToAssignedRoom(t *testing.T) {
	env := newTestEnv(t)

	env.loginPublic(t, "alice")
	room := env.createRoom(t, "vault", true, "hunter2")
	env.logout(t)

	result, err := env.eng.Authenticate("bob", "hunter2")
	require.NoError(t, err)
	require.Equal(t, models.TierRoom, result.Session.Tier)
	require.Equal(t, room.ID, result.Session.RestrictedToRoomID)

	route := env.eng.ActiveRoute()
	require.Equal(t, models.RoomKey(room.ID), route.ActiveKey)
	require.Equal(t, "vault", route.ActiveName)
}

func TestOnlineUserCount(t *testing.T) {
	env := newTestEnv(t)

	env.loginPublic(t, "alice")
	count, err := env.eng.OnlineUserCount()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	env.logout(t)
	count, err = env.eng.OnlineUserCount()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestLoginPersistenceFailureSurfaces(t *testing.T) {
	env := newTestEnv(t)

	env.store.FailSet = errSetFailed
	_, err := env.eng.Authenticate("alice", DefaultMasterPassword)
	require.ErrorIs(t, err, errSetFailed)

	_, ok := env.eng.CurrentSession()
	require.False(t, ok)
}
