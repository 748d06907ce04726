package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"securechat/internal/models"
)

func TestClassifyMasterPasswordGrantsPublic(t *testing.T) {
	access, err := ClassifySecret(DefaultMasterPassword, DefaultMasterPassword, nil)
	require.NoError(t, err)
	require.Equal(t, models.TierPublic, access.Tier)
	require.Empty(t, access.RoomID)
}

func TestClassifyPrivateRoomPassword(t *testing.T) {
	rooms := []models.Room{
		{ID: "r1", Name: "open", IsPrivate: false},
		{ID: "r2", Name: "vault", IsPrivate: true, Password: "hunter2"},
	}

	access, err := ClassifySecret("hunter2", DefaultMasterPassword, rooms)
	require.NoError(t, err)
	require.Equal(t, models.TierRoom, access.Tier)
	require.Equal(t, "r2", access.RoomID)
}

func TestClassifyPublicRoomPasswordNotACredential(t *testing.T) {
	rooms := []models.Room{
		{ID: "r1", Name: "open", IsPrivate: false, Password: "leftover"},
	}

	_, err := ClassifySecret("leftover", DefaultMasterPassword, rooms)
	require.ErrorIs(t, err, ErrDenied)
}

func TestClassifyUnknownSecretDenied(t *testing.T) {
	_, err := ClassifySecret("nope", DefaultMasterPassword, nil)
	require.ErrorIs(t, err, ErrDenied)

	_, err = ClassifySecret("", DefaultMasterPassword, nil)
	require.ErrorIs(t, err, ErrDenied)
}

func TestEngineClassifyLoadsRooms(t *testing.T) {
	env := newTestEnv(t)
	env.loginPublic(t, "alice")
	room := env.createRoom(t, "vault", true, "hunter2")
	env.logout(t)

	access, err := env.eng.Classify("hunter2")
	require.NoError(t, err)
	require.Equal(t, models.TierRoom, access.Tier)
	require.Equal(t, room.ID, access.RoomID)
}
