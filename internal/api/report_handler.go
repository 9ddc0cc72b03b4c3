package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
	"votify-backend-go/internal/db"
	"votify-backend-go/internal/export"
	"votify-backend-go/internal/models"
)

// ReportHandler handles the admin reporting endpoints.
type ReportHandler struct {
	reportService    core.ReportService
	candidateService core.CandidateService
	auditService     core.AuditService
	logger           *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs core.ReportService, cs core.CandidateService, as core.AuditService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: rs, candidateService: cs, auditService: as, logger: logger}
}

// Summary handles GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Stream handles GET /api/v1/reports/stream. Each candidate change is
// pushed as a "summary" event.
func (h *ReportHandler) Stream(c *gin.Context) {
	streamEvents(c, h.logger, "summary", func(push func(*models.ReportSummary, error)) (db.Unsubscribe, error) {
		return h.reportService.Watch(c.Request.Context(), push)
	})
}

// Voters handles GET /api/v1/reports/candidates/:id/voters
func (h *ReportHandler) Voters(c *gin.Context) {
	voters, err := h.candidateService.Voters(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, voters)
}

// Reset handles POST /api/v1/reports/reset
func (h *ReportHandler) Reset(c *gin.Context) {
	result, err := h.reportService.Reset(c.Request.Context(), actorID(c))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ResetResponse{
		Message:    "Semua suara telah direset.",
		Users:      result.Users,
		Candidates: result.Candidates,
	})
}

// ExportXLSX handles GET /api/v1/reports/export.xlsx
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	h.export(c, export.FormatXLSX)
}

// ExportCSV handles GET /api/v1/reports/export.csv
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	h.export(c, export.FormatCSV)
}

// export renders into memory first so a failure can still produce a JSON
// error instead of a truncated download.
func (h *ReportHandler) export(c *gin.Context, format string) {
	var buf bytes.Buffer
	filename, err := h.reportService.Export(c.Request.Context(), format, &buf)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypes[format], buf.Bytes())
}

// AuditLogs handles GET /api/v1/admin/audit-logs?limit=
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit", Details: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	logs, err := h.auditService.List(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
