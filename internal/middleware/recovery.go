package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
)

const panicToast = `{"showToast":{"message":"Something went wrong","type":"error"}}`

// Recovery turns a panic in a later handler into a 500 that matches the
// caller: the JSON envelope for /api/ routes and non-browser clients, an error
// toast for htmx requests, and the errors/500.html page for browsers.
//
// A panic with http.ErrAbortHandler means the client went away; it is logged
// at debug and nothing is written.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()

			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				logger.DebugContext(ctx, "request aborted", slog.String("path", c.Request.URL.Path))
				c.Abort()
				return
			}

			attrs := []any{
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("request_id", GetRequestID(c)),
			}
			if u := CurrentUser(c); u != nil {
				attrs = append(attrs, slog.Uint64("user_id", uint64(u.ID)))
			}
			attrs = append(attrs, slog.String("stack", string(debug.Stack())))
			logger.ErrorContext(ctx, "panic recovered", attrs...)

			c.Abort()
			switch {
			case strings.HasPrefix(c.Request.URL.Path, "/api/"):
				writePanicJSON(c)
			case c.GetHeader("HX-Request") == "true":
				c.Header("HX-Reswap", "none")
				c.Header("HX-Trigger", panicToast)
				c.Status(http.StatusInternalServerError)
			case acceptsHTML(c):
				renderHTMLError(c)
			default:
				writePanicJSON(c)
			}
		}()
		c.Next()
	}
}

func writePanicJSON(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"data":    nil,
		"error":   "internal server error",
	})
}

// renderHTMLError renders errors/500.html, falling back to plain text when no
// HTML renderer is configured.
func renderHTMLError(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{"Title": "Internal Server Error"})
}

func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}
