package middleware

import (
	"context"
	"strings"

	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling adds Pyroscope labels (service, route, method) to the request so
// CPU and allocation profiles can be sliced per endpoint. Health probes are
// left unlabeled.
func Profiling(service string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || strings.HasSuffix(route, "/actuator/health") {
			c.Next()
			return
		}

		labels := telemetry.HTTPRequestLabels(service, route, c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
