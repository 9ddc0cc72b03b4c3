package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/core"
)

// errorStatus maps service errors to HTTP status codes. Unknown errors are
// 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrIncompleteBallot),
		errors.Is(err, core.ErrInvalidCandidate),
		errors.Is(err, core.ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrVotingClosed),
		errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrCandidateNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyVoted),
		errors.Is(err, core.ErrEmailExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// mapErrorToStatus writes an ErrorResponse for err. Internal errors are
// logged and replaced with a generic message.
func mapErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("Internal Server Error",
			zap.String("path", c.FullPath()),
			zap.String("userID", c.GetString("userID")),
			zap.Error(err))
		c.JSON(status, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(status, ErrorResponse{Error: http.StatusText(status), Details: err.Error()})
}
