package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// EndOnShutdown cancels the request context once shutdown is closed. It is
// meant for long-lived responses such as event streams, which
// http.Server.Shutdown would otherwise wait on. A nil channel never fires.
func EndOnShutdown(shutdown <-chan struct{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		go func() {
			select {
			case <-shutdown:
				cancel()
			case <-ctx.Done():
			}
		}()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
