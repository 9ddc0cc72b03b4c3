package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/models"
)

// Replies of the account endpoints.
const (
	msgCreateInvalid   = "Email dan password dibutuhkan, password minimal 6 karakter."
	msgCreateConflict  = "Email ini sudah terdaftar."
	msgCreated         = "Pengguna %s berhasil dibuat."
	msgUIDRequired     = "User ID (UID) dibutuhkan."
	msgPasswordTooWeak = "Password baru minimal 6 karakter."
	msgUpdateConflict  = "Email baru sudah digunakan."
	msgUpdated         = "Data autentikasi pengguna berhasil diperbarui."
	msgAccountNotFound = "Pengguna tidak ditemukan di sistem autentikasi."
	msgDeleted         = "Pengguna dengan UID %s berhasil dihapus."
	msgInternal        = "Terjadi kesalahan internal."
)

// UserHandler handles the admin account and profile endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

func (h *UserHandler) internalError(c *gin.Context, op string, err error) {
	h.logger.Error("Account operation failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternal})
}

// CreateUser handles POST /api/v1/admin/create-user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgCreateInvalid})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), actorID(c), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, MessageResponse{Message: fmt.Sprintf(msgCreated, user.Email)})
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgCreateInvalid})
	case errors.Is(err, core.ErrEmailExists):
		c.JSON(http.StatusConflict, MessageResponse{Message: msgCreateConflict})
	default:
		h.internalError(c, "create-user", err)
	}
}

// UpdateUser handles POST /api/v1/admin/update-user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgUIDRequired})
		return
	}

	err := h.userService.UpdateAccount(c.Request.Context(), actorID(c), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, MessageResponse{Message: msgUpdated})
	case errors.Is(err, core.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgPasswordTooWeak})
	case errors.Is(err, core.ErrValidation):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
	case errors.Is(err, core.ErrEmailExists):
		c.JSON(http.StatusConflict, MessageResponse{Message: msgUpdateConflict})
	case errors.Is(err, core.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: msgAccountNotFound})
	default:
		h.internalError(c, "update-user", err)
	}
}

// DeleteUser handles POST /api/v1/admin/delete-user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	var req models.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgUIDRequired})
		return
	}

	err := h.userService.DeleteUser(c.Request.Context(), actorID(c), req.UID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf(msgDeleted, req.UID)})
	case errors.Is(err, core.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: msgAccountNotFound})
	default:
		h.internalError(c, "delete-user", err)
	}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateProfile handles PUT /api/v1/admin/users/:uid/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actorID(c), c.Param("uid"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
