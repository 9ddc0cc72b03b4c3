package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/models"
)

// CandidateHandler handles the voting catalog and admin candidate CRUD.
type CandidateHandler struct {
	candidateService core.CandidateService
	logger           *zap.Logger
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(cs core.CandidateService, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{candidateService: cs, logger: logger}
}

// Catalog handles GET /api/v1/candidates?q=
func (h *CandidateHandler) Catalog(c *gin.Context) {
	catalog, err := h.candidateService.Catalog(c.Request.Context(), c.Query("q"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// CreateCandidate handles POST /api/v1/admin/candidates
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req models.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	candidate, err := h.candidateService.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// ListCandidates handles GET /api/v1/admin/candidates
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	candidates, err := h.candidateService.List(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	if candidates == nil {
		candidates = []*models.Candidate{}
	}
	c.JSON(http.StatusOK, candidates)
}

// GetCandidate handles GET /api/v1/admin/candidates/:id
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	candidate, err := h.candidateService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// UpdateCandidate handles PUT /api/v1/admin/candidates/:id
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	var req models.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	candidate, err := h.candidateService.Update(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// DeleteCandidate handles DELETE /api/v1/admin/candidates/:id
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	if err := h.candidateService.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
