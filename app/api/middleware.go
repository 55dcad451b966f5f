package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/internal/logger"
)

// RequestLogger emits one structured log line per request.
func RequestLogger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		l.Info("http request", logger.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		})
	}
}
