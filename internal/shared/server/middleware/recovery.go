package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/UtsavYadav1/CareerBERT/internal/shared/server/respond"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

// Recovery turns a panicking page replay or download into a 500. When the
// handler already started the response, the connection is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"written":    c.Writer.Written(),
			}
			if sid := c.GetString(SessionIDKey); sid != "" {
				fields["session_id"] = sid
			}
			telemetry.Error("request.panic", fields)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
