package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securechat/internal/engine"
	"securechat/internal/models"
	"securechat/internal/repositories"
	"securechat/internal/storage"
)

func newSweepEngine(t *testing.T, now *time.Time) (*engine.Engine, *repositories.MessageRepo) {
	t.Helper()
	store := storage.NewMemoryStore()
	messages := repositories.NewMessageRepo(store)
	eng := engine.New(
		repositories.NewUserRepo(store),
		repositories.NewRoomRepo(store),
		messages,
		repositories.NewConfigRepo(store),
		engine.Options{Now: func() time.Time { return *now }},
	)
	return eng, messages
}

func TestStartRejectsInvalidCron(t *testing.T) {
	now := time.Now()
	eng, _ := newSweepEngine(t, &now)

	_, err := Start(context.Background(), eng, "not a cron")
	require.Error(t, err)
}

func TestStartRunsImmediateSweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	eng, messages := newSweepEngine(t, &now)

	// One stale general message and one stale DM, aged past the default
	// 24h retention.
	stale := now.Add(-48 * time.Hour)
	require.NoError(t, messages.Append(models.Message{ID: "m1", ConversationKey: models.GeneralKey, CreatedAt: stale}))
	require.NoError(t, messages.Append(models.Message{ID: "m2", ConversationKey: models.DMKey("a", "b"), CreatedAt: stale}))

	cancel, err := Start(context.Background(), eng, DefaultCron)
	require.NoError(t, err)
	defer cancel()

	remaining, err := messages.List()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "m2", remaining[0].ID)
}

func TestStartDefaultsCron(t *testing.T) {
	now := time.Now()
	eng, _ := newSweepEngine(t, &now)

	cancel, err := Start(context.Background(), eng, "")
	require.NoError(t, err)
	cancel()
}
