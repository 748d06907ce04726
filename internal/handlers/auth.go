package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"securechat/internal/engine"
	"securechat/internal/middleware"
	"securechat/internal/observability"
	"securechat/internal/telemetry"
)

// AuthHandler manages secret classification and session endpoints.
type AuthHandler struct {
	eng    *engine.Engine
	issuer *middleware.TokenIssuer
	audit  *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(eng *engine.Engine, issuer *middleware.TokenIssuer, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{eng: eng, issuer: issuer, audit: audit}
}

// Classify handles POST /auth/classify. It reports which tier a secret
// grants without establishing a session.
func (h *AuthHandler) Classify(c *gin.Context) {
	var req struct {
		Secret string `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, err := h.eng.Classify(req.Secret)
	if err != nil {
		observability.IncEngineOp("classify", "denied")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("classify", "ok")
	c.JSON(http.StatusOK, access)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Secret   string `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.eng.Authenticate(req.Username, req.Secret)
	if err != nil {
		observability.IncEngineOp("login", "error")
		h.emitAudit(c, "ERROR", "login rejected for "+req.Username)
		writeError(c, err)
		return
	}

	token, err := h.issuer.Mint(result.Session.Identity.ID, result.Session.Identity.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mint token"})
		return
	}

	observability.IncEngineOp("login", "ok")
	h.emitAudit(c, "INFO", "login "+result.Session.Identity.Username)
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"session": result.Session,
		"welcome": result.Welcome,
	})
}

// AdminSetup handles POST /auth/admin-setup, the one-time bootstrap that
// creates the admin config and signs the admin in.
func (h *AuthHandler) AdminSetup(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.eng.SetupAdmin(req.Password)
	if err != nil {
		observability.IncEngineOp("admin_setup", "error")
		h.emitAudit(c, "ERROR", "admin setup rejected")
		writeError(c, err)
		return
	}

	token, err := h.issuer.Mint(result.Session.Identity.ID, result.Session.Identity.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mint token"})
		return
	}

	observability.IncEngineOp("admin_setup", "ok")
	h.emitAudit(c, "INFO", "admin setup completed")
	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"session": result.Session,
		"welcome": result.Welcome,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.eng.Logout(); err != nil {
		observability.IncEngineOp("logout", "error")
		writeError(c, err)
		return
	}

	observability.IncEngineOp("logout", "ok")
	h.emitAudit(c, "INFO", "logout")
	c.Status(http.StatusNoContent)
}

// ListUsers handles GET /users.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.eng.Users()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
