package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"securechat/internal/engine"
	"securechat/internal/observability"
)

// ConversationHandler manages the active conversation route.
type ConversationHandler struct {
	eng *engine.Engine
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(eng *engine.Engine) *ConversationHandler {
	return &ConversationHandler{eng: eng}
}

// Active handles GET /conversations/active.
func (h *ConversationHandler) Active(c *gin.Context) {
	c.JSON(http.StatusOK, h.eng.ActiveRoute())
}

// Switch handles POST /conversations/switch.
func (h *ConversationHandler) Switch(c *gin.Context) {
	var req struct {
		TargetID string `json:"target_id"`
		Type     string `json:"type" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, err := h.eng.SwitchTo(req.TargetID, req.Type, req.Name)
	if err != nil {
		observability.IncEngineOp("conversation_switch", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("conversation_switch", "ok")
	c.JSON(http.StatusOK, route)
}

// StartDM handles POST /conversations/dm.
func (h *ConversationHandler) StartDM(c *gin.Context) {
	var req struct {
		PeerID string `json:"peer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, err := h.eng.StartDM(req.PeerID)
	if err != nil {
		observability.IncEngineOp("dm_start", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("dm_start", "ok")
	c.JSON(http.StatusOK, route)
}
