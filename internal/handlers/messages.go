package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"securechat/internal/engine"
	"securechat/internal/observability"
	"securechat/internal/telemetry"
)

// MessageHandler manages message endpoints.
type MessageHandler struct {
	eng   *engine.Engine
	audit *telemetry.AuditEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(eng *engine.Engine, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{eng: eng, audit: audit}
}

// List handles GET /messages. The conversation defaults to the active route;
// pass ?conversation=<key> to read another reachable conversation.
func (h *MessageHandler) List(c *gin.Context) {
	key := c.Query("conversation")
	if key == "" {
		key = h.eng.ActiveRoute().ActiveKey
	}

	view, err := h.eng.FilterFor(key)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": key,
		"messages":     view.Messages,
		"pinned":       view.Pinned,
	})
}

// Post handles POST /messages.
func (h *MessageHandler) Post(c *gin.Context) {
	var req struct {
		Conversation string `json:"conversation"`
		Content      string `json:"content" binding:"required"`
		ReplyTo      string `json:"reply_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.eng.Send(req.Conversation, req.Content, req.ReplyTo)
	if err != nil {
		observability.IncEngineOp("message_send", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("message_send", "ok")
	c.JSON(http.StatusCreated, msg)
}

// Edit handles PUT /messages/:message_id.
func (h *MessageHandler) Edit(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.eng.Edit(c.Param("message_id"), req.Content)
	if err != nil {
		observability.IncEngineOp("message_edit", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("message_edit", "ok")
	c.JSON(http.StatusOK, msg)
}

// Delete handles DELETE /messages/:message_id.
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.eng.Delete(c.Param("message_id")); err != nil {
		observability.IncEngineOp("message_delete", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("message_delete", "ok")
	h.emitAudit(c, "INFO", "message deleted: "+c.Param("message_id"))
	c.Status(http.StatusNoContent)
}

// Pin handles POST /messages/:message_id/pin.
func (h *MessageHandler) Pin(c *gin.Context) {
	if err := h.eng.Pin(c.Param("message_id")); err != nil {
		observability.IncEngineOp("message_pin", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("message_pin", "ok")
	c.Status(http.StatusNoContent)
}

// Unpin handles DELETE /messages/:message_id/pin.
func (h *MessageHandler) Unpin(c *gin.Context) {
	if err := h.eng.Unpin(c.Param("message_id")); err != nil {
		observability.IncEngineOp("message_unpin", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("message_unpin", "ok")
	c.Status(http.StatusNoContent)
}

// React handles POST /messages/:message_id/reactions. The same call toggles
// a reaction off when the caller already reacted with that emoji.
func (h *MessageHandler) React(c *gin.Context) {
	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.eng.React(c.Param("message_id"), req.Emoji)
	if err != nil {
		observability.IncEngineOp("message_react", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("message_react", "ok")
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
