package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/identity"
	"votify-backend-go/internal/models"
)

// Keys under which the auth middleware stores request identity.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextSession   = "session"
)

// ErrorResponse mirrors the API error body. It is declared here so the
// middleware does not import the api package.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier checks a Firebase ID token.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*identity.Token, error)
}

// SessionResolver loads the stored profile for a verified identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, uid, email string) (*models.Session, error)
}

// AuthMiddleware provides Gin middleware for Firebase token authentication
// and admin authorization.
type AuthMiddleware struct {
	verifier TokenVerifier
	sessions SessionResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier, sessions SessionResolver, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil || sessions == nil {
		panic("AuthMiddleware requires a token verifier and a session resolver")
	}
	return &AuthMiddleware{verifier: verifier, sessions: sessions, logger: logger}
}

// VerifyToken verifies the bearer token and stores the UID and email in the
// Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Debug("Rejected ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserID, token.UID)
		if token.Email != "" {
			c.Set(ContextUserEmail, token.Email)
		}
		c.Next()
	}
}

// RequireAdmin must run after VerifyToken. It loads the caller's profile and
// rejects anyone whose role is not admin, including callers without a
// profile.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.resolve(c)
		if err != nil {
			m.logger.Error("Failed to resolve session", zap.String("userID", c.GetString(ContextUserID)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load user profile"})
			return
		}
		if !session.Profile.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden", Details: "Admin role required"})
			return
		}
		c.Next()
	}
}

// LoadSession must run after VerifyToken. It attaches the session, with a
// nil profile when none is stored.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.resolve(c); err != nil {
			m.logger.Error("Failed to resolve session", zap.String("userID", c.GetString(ContextUserID)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load user profile"})
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*models.Session, error) {
	if session, ok := SessionFromContext(c); ok {
		return session, nil
	}
	uid := c.GetString(ContextUserID)
	if uid == "" {
		return nil, errors.New("no authenticated user in context")
	}
	session, err := m.sessions.ResolveSession(c.Request.Context(), uid, c.GetString(ContextUserEmail))
	if err != nil {
		return nil, err
	}
	c.Set(ContextSession, session)
	return session, nil
}

// SessionFromContext returns the session attached by RequireAdmin or
// LoadSession.
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*models.Session)
	return session, ok && session != nil
}
