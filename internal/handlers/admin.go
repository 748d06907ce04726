package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"securechat/internal/engine"
	"securechat/internal/models"
	"securechat/internal/observability"
	"securechat/internal/telemetry"
)

// AdminHandler manages admin configuration endpoints.
type AdminHandler struct {
	eng   *engine.Engine
	audit *telemetry.AuditEmitter
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(eng *engine.Engine, audit *telemetry.AuditEmitter) *AdminHandler {
	return &AdminHandler{eng: eng, audit: audit}
}

// GetRetention handles GET /admin/retention.
func (h *AdminHandler) GetRetention(c *gin.Context) {
	hours, err := h.eng.RetentionHours()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"retention_hours": hours})
}

// UpdateRetention handles PUT /admin/retention.
func (h *AdminHandler) UpdateRetention(c *gin.Context) {
	var req struct {
		Hours int `json:"hours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.eng.UpdateRetention(req.Hours); err != nil {
		observability.IncEngineOp("retention_update", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("retention_update", "ok")
	h.emitAudit(c, "INFO", "retention updated")
	c.JSON(http.StatusOK, gin.H{"retention_hours": req.Hours})
}

// UpdatePassword handles PUT /admin/password.
func (h *AdminHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.eng.UpdateAdminPassword(req.Password); err != nil {
		observability.IncEngineOp("admin_password_update", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("admin_password_update", "ok")
	h.emitAudit(c, "INFO", "admin password updated")
	c.Status(http.StatusNoContent)
}

// Sweep handles POST /admin/sweep, an on-demand retention sweep.
func (h *AdminHandler) Sweep(c *gin.Context) {
	if sess, ok := h.eng.CurrentSession(); !ok || sess.Tier != models.TierAdmin {
		writeError(c, engine.ErrNotAuthorized)
		return
	}

	removed, err := h.eng.SweepNow()
	if err != nil {
		observability.IncEngineOp("sweep", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("sweep", "ok")
	observability.AddMessagesSwept(removed)
	h.emitAudit(c, "INFO", "manual retention sweep")
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *AdminHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
