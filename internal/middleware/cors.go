package middleware

import (
	"strings"
	"time"

	"invoice-link-backend/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CORS allows the configured origins. A "*" entry allows any origin.
func CORS(cfg config.ServerConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	origins := lo.Compact(lo.Map(cfg.CORSOrigins, func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))
	if len(origins) == 0 || lo.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}

	return cors.New(c)
}
