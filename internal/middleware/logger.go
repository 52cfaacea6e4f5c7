package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key the request ID is stored under.
const requestIDKey = "request_id"

// RequestID tags every request with an X-Request-ID, honoring one supplied
// by the client so the frontend can correlate its own traces with ours.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one line per request. Healthy liveness/readiness probes are
// skipped so orchestrator polling does not drown out analysis traffic;
// statement uploads log their declared body size to help correlate slow
// requests with large PDFs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest && (path == "/healthz" || path == "/readyz") {
			return
		}

		line := fmt.Sprintf("http: %s %s -> %d in %s", c.Request.Method, path, status, time.Since(start))
		if c.Request.Method == http.MethodPost && c.Request.ContentLength > 0 {
			line += fmt.Sprintf(", %d byte body", c.Request.ContentLength)
		}
		log.Printf("%s request_id=%s", line, c.GetString(requestIDKey))
	}
}

// Recovery converts panics into the standard 500 JSON envelope instead of
// gin's default empty body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("http: panic recovered: %v request_id=%s", recovered, c.GetString(requestIDKey))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "an internal error occurred",
			},
		})
	})
}
