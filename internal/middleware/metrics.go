package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics returns middleware that captures request metrics using the provided service.
// Requests to skipPath (the scrape endpoint) are not observed.
func Metrics(metricsSvc *service.MetricsService, skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || (skipPath != "" && c.Request.URL.Path == skipPath) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			// unmatched routes share one label
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
