package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"votify-backend-go/internal/middleware"
)

// AuthHandler serves the caller's own session.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// GetSession handles GET /api/v1/users/me. The route runs LoadSession, so
// the session is always present; its profile is null when none is stored.
func (h *AuthHandler) GetSession(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}
	c.JSON(http.StatusOK, session)
}
