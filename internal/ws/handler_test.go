package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"securechat/internal/engine"
	"securechat/internal/models"
	"securechat/internal/repositories"
	"securechat/internal/storage"
)

func newWSEngine(t *testing.T) *engine.Engine {
	t.Helper()
	store := storage.NewMemoryStore()
	return engine.New(
		repositories.NewUserRepo(store),
		repositories.NewRoomRepo(store),
		repositories.NewMessageRepo(store),
		repositories.NewConfigRepo(store),
		engine.Options{},
	)
}

func wsServer(t *testing.T, eng *engine.Engine, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", NewHandler(hub, eng).Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleRejectsWithoutSession(t *testing.T) {
	srv := wsServer(t, newWSEngine(t), NewHub())

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleRejectsUnreachableConversation(t *testing.T) {
	eng := newWSEngine(t)
	srv := wsServer(t, eng, NewHub())

	_, err := eng.Authenticate("alice", engine.DefaultMasterPassword)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/ws?conversation=" + models.DMKey("x", "y"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandleSubscribesAndDeliversEvents(t *testing.T) {
	eng := newWSEngine(t)
	hub := NewHub()
	eng.Subscribe(hub.Publish)
	srv := wsServer(t, eng, hub)

	_, err := eng.Authenticate("alice", engine.DefaultMasterPassword)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?conversation=" + models.GeneralKey
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, err = eng.Send(models.GeneralKey, "hello over the wire", "")
	require.NoError(t, err)

	ev := readEvent(t, conn)
	require.Equal(t, models.EventMessageNew, ev.Type)
	require.NotNil(t, ev.Message)
	require.Equal(t, "hello over the wire", ev.Message.Content)
}
