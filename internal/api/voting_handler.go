package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/db"
	"votify-backend-go/internal/middleware"
	"votify-backend-go/internal/models"
)

// VotingHandler serves the voting page: gate status and vote submission.
type VotingHandler struct {
	votingService   core.VotingService
	settingsService core.SettingsService
	logger          *zap.Logger
	now             func() time.Time
}

// NewVotingHandler creates a new VotingHandler.
func NewVotingHandler(vs core.VotingService, ss core.SettingsService, logger *zap.Logger) *VotingHandler {
	return &VotingHandler{votingService: vs, settingsService: ss, logger: logger, now: time.Now}
}

func (h *VotingHandler) statusResponse(status models.PeriodStatus) VotingStatusResponse {
	resp := VotingStatusResponse{PeriodStatus: status}
	if status.IsOpen() && status.EndDate != nil {
		countdown := core.CountdownTo(*status.EndDate, h.now())
		resp.Countdown = &countdown
	}
	return resp
}

// Status handles GET /api/v1/voting/status
func (h *VotingHandler) Status(c *gin.Context) {
	status, err := h.settingsService.Status(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.statusResponse(status))
}

// StatusStream handles GET /api/v1/voting/status/stream. Each settings
// change is pushed as a "status" event.
func (h *VotingHandler) StatusStream(c *gin.Context) {
	streamEvents(c, h.logger, "status", func(push func(VotingStatusResponse, error)) (db.Unsubscribe, error) {
		return h.settingsService.Watch(c.Request.Context(), func(status models.PeriodStatus, err error) {
			push(h.statusResponse(status), err)
		})
	})
}

// SubmitVote handles POST /api/v1/votes
func (h *VotingHandler) SubmitVote(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	var req models.SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	receipt, err := h.votingService.SubmitVote(c.Request.Context(), session, req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}
