package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/models"
)

// SettingsHandler handles the admin voting period endpoints.
type SettingsHandler struct {
	settingsService core.SettingsService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(ss core.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: ss, logger: logger}
}

// GetSettings handles GET /api/v1/admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, status, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SettingsResponse{Settings: settings, Status: status})
}

// SaveSettings handles PUT /api/v1/admin/settings
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req models.SaveVotingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if _, err := h.settingsService.SavePeriod(c.Request.Context(), actorID(c), req); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	h.GetSettings(c)
}

// ToggleEnabled handles PATCH /api/v1/admin/settings/enabled
func (h *SettingsHandler) ToggleEnabled(c *gin.Context) {
	var req models.ToggleVotingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.settingsService.SetEnabled(c.Request.Context(), actorID(c), *req.IsEnabled); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	h.GetSettings(c)
}
