package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votify-backend-go/internal/db"
	"votify-backend-go/internal/middleware"
)

// actorID is the UID set by the auth middleware.
func actorID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// HealthCheck handles GET /health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Votify backend is healthy."})
}

type streamUpdate[T any] struct {
	value T
	err   error
}

// streamEvents relays values from a snapshot subscription as server-sent
// events named event until the client disconnects. A slow client only
// receives the latest value.
func streamEvents[T any](c *gin.Context, logger *zap.Logger, event string, subscribe func(push func(T, error)) (db.Unsubscribe, error)) {
	updates := make(chan streamUpdate[T], 1)
	push := func(v T, err error) {
		u := streamUpdate[T]{value: v, err: err}
		for {
			select {
			case updates <- u:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}

	unsubscribe, err := subscribe(push)
	if err != nil {
		mapErrorToStatus(c, logger, err)
		return
	}
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case u := <-updates:
			if u.err != nil {
				logger.Warn("Stream listener failed", zap.String("event", event), zap.Error(u.err))
				c.SSEvent("error", ErrorResponse{Error: "stream interrupted"})
				return false
			}
			c.SSEvent(event, u.value)
			return true
		}
	})
}
