package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"securechat/internal/models"
)

func TestUpdateRetentionAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	require.ErrorIs(t, env.eng.UpdateRetention(48), ErrNoSession)

	env.loginPublic(t, "alice")
	require.ErrorIs(t, env.eng.UpdateRetention(48), ErrNotAuthorized)
	env.logout(t)

	_, err := env.eng.SetupAdmin("secret123")
	require.NoError(t, err)

	require.NoError(t, env.eng.UpdateRetention(48))
	hours, err := env.eng.RetentionHours()
	require.NoError(t, err)
	require.Equal(t, 48, hours)
}

func TestUpdateRetentionBounds(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.eng.SetupAdmin("secret123")
	require.NoError(t, err)

	require.ErrorIs(t, env.eng.UpdateRetention(0), ErrValidation)
	require.ErrorIs(t, env.eng.UpdateRetention(models.MaxRetentionHours+1), ErrValidation)
}

func TestRetentionHoursDefaultBeforeSetup(t *testing.T) {
	env := newTestEnv(t)

	hours, err := env.eng.RetentionHours()
	require.NoError(t, err)
	require.Equal(t, models.DefaultAdminConfig().DefaultMessageRetentionHours, hours)
}

func TestUpdateAdminPassword(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.eng.SetupAdmin("secret123")
	require.NoError(t, err)

	require.ErrorIs(t, env.eng.UpdateAdminPassword("tiny"), ErrValidation)
	require.NoError(t, env.eng.UpdateAdminPassword("brand-new-secret"))

	cfg, ok, err := env.cfg.Get()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte("brand-new-secret")))

	env.logout(t)
	_, err = env.eng.Authenticate("admin", "secret123")
	require.ErrorIs(t, err, ErrDenied)
	_, err = env.eng.Authenticate("admin", "brand-new-secret")
	require.NoError(t, err)
}

func TestObserversReceiveEvents(t *testing.T) {
	env := newTestEnv(t)

	var events []models.Event
	env.eng.Subscribe(func(ev models.Event) {
		events = append(events, ev)
	})

	env.loginPublic(t, "alice")
	_, err := env.eng.Send("", "hello", "")
	require.NoError(t, err)

	require.Len(t, events, 2)
	require.Equal(t, models.EventPresence, events[0].Type)
	require.Equal(t, models.EventMessageNew, events[1].Type)
	require.NotNil(t, events[1].Message)
	require.Equal(t, models.GeneralKey, events[1].ConversationKey)
}
