package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/pkg"
)

// renderError answers a failed request in the shape its client expects:
//   - /api/ paths and JSON-only clients get the pkg.Response envelope;
//   - htmx requests get an error toast and no swap;
//   - browsers get the matching errors/ page, or plain text when no
//     renderer is configured.
func renderError(c *gin.Context, code int, message string) {
	switch {
	case strings.HasPrefix(c.Request.URL.Path, "/api/") || wantsJSON(c):
		c.JSON(code, pkg.Response{Success: false, Error: message})
	case pkg.IsHTMX(c):
		pkg.ToastError(c, statusLabel(code))
	case acceptsHTML(c):
		renderErrorPage(c, code)
	default:
		c.JSON(code, pkg.Response{Success: false, Error: message})
	}
}

func renderErrorPage(c *gin.Context, code int) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8", []byte(fmt.Sprintf("%d %s", code, statusLabel(code))))
		}
	}()
	c.HTML(code, errorPage(code), gin.H{"Title": statusLabel(code)})
}

// errorPage names the template for code; unmapped codes use the 500 page.
func errorPage(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusNotFound:
		return fmt.Sprintf("errors/%d.html", code)
	default:
		return "errors/500.html"
	}
}

// wantsJSON reports an explicit JSON Accept header without text/html.
// It is checked before acceptsHTML, which also matches */*.
func wantsJSON(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// acceptsHTML matches text/html, */* and an empty Accept header.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}

func statusLabel(code int) string {
	if text := http.StatusText(code); text != "" && code >= 400 {
		return text
	}
	return "Error"
}
