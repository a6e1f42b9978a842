package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notecraft/notecraft/pkg/logger"
)

// LoggerMiddleware logs one line per request through the structured logger.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log := logger.FromContext(c.Request.Context())
		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
