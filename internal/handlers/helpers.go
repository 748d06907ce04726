package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"securechat/internal/engine"
	"securechat/internal/repositories"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if val, ok := c.Get("userID"); ok {
		if userID, ok := val.(string); ok && userID != "" {
			return &userID
		}
	}

	if header := c.GetHeader("X-User-ID"); header != "" {
		return &header
	}

	return nil
}

// statusForError maps engine and repository errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrDenied),
		errors.Is(err, engine.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, engine.ErrAccessDenied),
		errors.Is(err, engine.ErrWrongPassword),
		errors.Is(err, engine.ErrNotAuthor),
		errors.Is(err, engine.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrUsernameTaken),
		errors.Is(err, engine.ErrAdminSetupRequired):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrRoomNotFound),
		errors.Is(err, repositories.ErrMessageNotFound),
		errors.Is(err, repositories.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
