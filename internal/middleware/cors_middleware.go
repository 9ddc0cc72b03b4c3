package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"votify-backend-go/internal/config"
)

// CORSMiddleware allows the admin panel and voting page origins listed in
// CLIENT_URL (comma separated). An empty CLIENT_URL allows any origin
// without credentials.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := AllowedOrigins(appConfig)
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	return cors.New(corsConfig)
}

// AllowedOrigins splits CLIENT_URL into trimmed origins.
func AllowedOrigins(appConfig *config.Config) []string {
	if appConfig == nil {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(appConfig.ClientURL, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
