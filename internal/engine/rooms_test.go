package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"securechat/internal/models"
)

func TestCreateRoomRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.CreateRoom("lounge", false, "")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCreateRoomValidation(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")

	_, err := env.eng.CreateRoom("   ", false, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.eng.CreateRoom("vault", true, "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateRoomOwnerIsFirstMember(t *testing.T) {
	env := newTestEnv(t)
	sess := env.loginPublic(t, "alice")

	room := env.createRoom(t, "lounge", false, "")
	require.Equal(t, sess.Identity.ID, room.OwnerID)
	require.Equal(t, []string{sess.Identity.ID}, room.MemberIDs)
}

func TestJoinPrivateRoomPassword(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")
	room := env.createRoom(t, "vault", true, "hunter2")
	env.logout(t)

	bob := env.loginPublic(t, "bob")

	_, err := env.eng.JoinRoom(room.ID, "wrong")
	require.ErrorIs(t, err, ErrWrongPassword)

	route, err := env.eng.JoinRoom(room.ID, "hunter2")
	require.NoError(t, err)
	require.Equal(t, models.RoomKey(room.ID), route.ActiveKey)

	joined, err := env.rooms.Get(room.ID)
	require.NoError(t, err)
	require.True(t, joined.HasMember(bob.Identity.ID))

	// Rejoining does not duplicate membership.
	_, err = env.eng.JoinRoom(room.ID, "hunter2")
	require.NoError(t, err)
	again, err := env.rooms.Get(room.ID)
	require.NoError(t, err)
	require.Len(t, again.MemberIDs, 2)
}

func TestJoinPublicRoomNeedsNoPassword(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")
	room := env.createRoom(t, "lounge", false, "")
	env.logout(t)

	env.loginPublic(t, "bob")
	_, err := env.eng.JoinRoom(room.ID, "")
	require.NoError(t, err)
}

func TestCreateRoomQuota(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")

	max := models.DefaultAdminConfig().MaxRoomsPerUser
	for i := 0; i < max; i++ {
		env.createRoom(t, "room", false, "")
	}

	_, err := env.eng.CreateRoom("one too many", false, "")
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCreateRoomDisabledForNonAdmins(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.SetupAdmin("secret123")
	require.NoError(t, err)

	cfg, ok, err := env.cfg.Get()
	require.NoError(t, err)
	require.True(t, ok)
	cfg.AllowUserRoomCreation = false
	require.NoError(t, env.cfg.Save(cfg))

	// Admin may still create rooms.
	_, err = env.eng.CreateRoom("announcements", false, "")
	require.NoError(t, err)
	env.logout(t)

	env.loginPublic(t, "alice")
	_, err = env.eng.CreateRoom("mine", false, "")
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestRoomTierCannotCreateRooms(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")
	env.createRoom(t, "vault", true, "hunter2")
	env.logout(t)

	_, err := env.eng.Authenticate("bob", "hunter2")
	require.NoError(t, err)

	_, err = env.eng.CreateRoom("breakout", false, "")
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestVisibleRoomsScopedByTier(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")
	vault := env.createRoom(t, "vault", true, "hunter2")
	env.createRoom(t, "lounge", false, "")

	all, err := env.eng.VisibleRooms()
	require.NoError(t, err)
	require.Len(t, all, 2)
	env.logout(t)

	_, err = env.eng.Authenticate("bob", "hunter2")
	require.NoError(t, err)

	scoped, err := env.eng.VisibleRooms()
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, vault.ID, scoped[0].ID)
}

func TestRoomSummaryHidesPassword(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")
	env.createRoom(t, "vault", true, "hunter2")

	summaries, err := env.eng.VisibleRooms()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.True(t, summaries[0].IsPrivate)
}
