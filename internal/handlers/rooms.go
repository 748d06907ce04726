package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"securechat/internal/engine"
	"securechat/internal/observability"
	"securechat/internal/telemetry"
)

// RoomHandler manages room directory endpoints.
type RoomHandler struct {
	eng   *engine.Engine
	audit *telemetry.AuditEmitter
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(eng *engine.Engine, audit *telemetry.AuditEmitter) *RoomHandler {
	return &RoomHandler{eng: eng, audit: audit}
}

// ListRooms handles GET /rooms. Room-tier sessions only see their own room.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.eng.VisibleRooms()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// CreateRoom handles POST /rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		IsPrivate bool   `json:"is_private"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.eng.CreateRoom(req.Name, req.IsPrivate, req.Password)
	if err != nil {
		observability.IncEngineOp("room_create", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("room_create", "ok")
	h.emitAudit(c, "INFO", "room created: "+room.Name)
	c.JSON(http.StatusCreated, room.Summary())
}

// JoinRoom handles POST /rooms/:room_id/join. Joining switches the active
// conversation to the room.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	// The body is optional for public rooms.
	_ = c.ShouldBindJSON(&req)

	route, err := h.eng.JoinRoom(c.Param("room_id"), req.Password)
	if err != nil {
		observability.IncEngineOp("room_join", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("room_join", "ok")
	c.JSON(http.StatusOK, route)
}

func (h *RoomHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
