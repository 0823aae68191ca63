package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/domain"
)

const sessionContextKey = "session"

// SessionResolver turns a session token into the session it belongs to.
type SessionResolver interface {
	Session(ctx context.Context, token string) (*domain.Session, error)
}

// SessionConfig configures the Session gate.
type SessionConfig struct {
	// CookieName is the cookie carrying the session token.
	CookieName string
	// PublicPaths are reachable without a session. A trailing "/*" matches
	// the whole subtree.
	PublicPaths []string
	// APIPrefix marks JSON routes, which get 401 instead of a redirect.
	// Defaults to "/api/".
	APIPrefix string
	// LoginPath defaults to "/login".
	LoginPath string
}

// Session returns a middleware that resolves the caller's session and gates
// every non-public route behind it.
//
// Unauthenticated API calls receive 401. htmx requests receive an
// HX-Redirect to the login page and everything else a 302 carrying a
// callbackUrl back to the requested path. Signed-in users visiting the
// login or signup pages are sent home.
func Session(resolver SessionResolver, cfg SessionConfig) gin.HandlerFunc {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if token := SessionToken(c, cfg.CookieName); token != "" {
			sess, err := resolver.Session(c.Request.Context(), token)
			if err == nil && sess != nil {
				c.Set(sessionContextKey, sess)
			} else if cookie, cerr := c.Cookie(cfg.CookieName); cerr == nil && cookie != "" {
				ClearSessionCookie(c, cfg.CookieName)
			}
		}

		signedIn := CurrentSession(c) != nil

		if signedIn && (path == cfg.LoginPath || path == "/signup") {
			redirect(c, "/")
			return
		}
		if signedIn || isPublicPath(path, cfg.PublicPaths) {
			c.Next()
			return
		}

		if strings.HasPrefix(path, cfg.APIPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"data":    nil,
				"error":   "authentication required",
			})
			return
		}

		target := cfg.LoginPath
		if path != "/" {
			cb := path
			if c.Request.URL.RawQuery != "" {
				cb += "?" + c.Request.URL.RawQuery
			}
			target += "?callbackUrl=" + url.QueryEscape(cb)
		}
		redirect(c, target)
	}
}

// redirect navigates the browser to location, through HX-Redirect for htmx
// requests.
func redirect(c *gin.Context, location string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", location)
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func isPublicPath(path string, public []string) bool {
	for _, p := range public {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// SessionToken reads the session token from the session cookie, falling back
// to an "Authorization: Bearer" header.
func SessionToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// CurrentSession returns the session resolved for this request, or nil.
func CurrentSession(c *gin.Context) *domain.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if s := CurrentSession(c); s != nil {
		return s.User
	}
	return nil
}

// SetSessionCookie stores the session token in an HttpOnly cookie that
// expires with the token. The Secure flag is set in release mode.
func SetSessionCookie(c *gin.Context, name string, sess *domain.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}
