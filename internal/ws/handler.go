package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"securechat/internal/engine"
	"securechat/internal/observability"
)

// Handler upgrades presentation clients to websocket subscriptions.
type Handler struct {
	hub *Hub
	eng *engine.Engine
}

// NewHandler constructs a websocket Handler.
func NewHandler(hub *Hub, eng *engine.Engine) *Handler {
	return &Handler{hub: hub, eng: eng}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client for the requested
// conversation (query param "conversation"; empty subscribes to the global
// feed). The session middleware must run first.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("securechat/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	sess, ok := h.eng.CurrentSession()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	key := c.Query("conversation")
	if key != "" && !h.eng.CanAccess(key) {
		c.JSON(http.StatusForbidden, gin.H{"error": "conversation not reachable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      sess.Identity.ID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(key, conn, info)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")

	// Drain reads until the client goes away, then clean up.
	go func() {
		defer func() {
			h.hub.RemoveClient(key, conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
				}
				return
			}
		}
	}()
}
