package daemon

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginLogger writes one access log line per request through logger. Rejected
// input is a warning, not an error. Calculator actions also log the display
// they left behind.
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// handlers may rewrite c.Request.URL
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := logrus.Fields{
			"status":  statusCode,
			"latency": latency.Round(time.Microsecond).String(),
			"method":  c.Request.Method,
			"path":    path,
			"bytes":   max(c.Writer.Size(), 0),
		}
		if c.Request.Method == http.MethodPost && statusCode == http.StatusCreated && sess != nil &&
			!strings.HasPrefix(path, "/schedule") {
			fields["display"] = sess.display().Display
		}
		if len(c.Errors) > 0 {
			fields["error"] = strings.Join(c.Errors.Errors(), "; ")
		}
		entry := logger.WithFields(fields)

		msg := c.Request.Method + " " + path
		switch {
		case statusCode >= http.StatusInternalServerError:
			entry.Error(msg)
		case statusCode >= http.StatusBadRequest:
			entry.Warn(msg)
		case path == "/events":
			entry.Debug("event stream closed")
		default:
			entry.Debug(msg)
		}
	}
}
