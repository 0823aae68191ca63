package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	csrfCookieName = "_csrf_token"
	csrfFormField  = "_csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"
)

const csrfToast = `{"showToast":{"message":"Security token expired, reload the page","type":"error"}}`

// CSRF protects the page routes with a signed double-submit token.
//
// Safe methods get a token cookie (issued when missing or badly signed) and
// the token is exposed to templates through GetCSRFToken. The base layout puts
// it in an hx-headers attribute, so htmx sends it as X-CSRF-Token; plain forms
// send the _csrf_token field.
//
// Writes must carry a token equal to the cookie and signed with secret. A
// rejected htmx request gets a 403 with an error toast; anything else gets the
// JSON envelope. The /api group does not use this middleware.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "csrf secret is required",
			})
		}
	}
	g := csrfGuard{secret: secret, secure: gin.Mode() == gin.ReleaseMode}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			g.issue(c)
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			g.verify(c)
		default:
			c.Next()
		}
	}
}

type csrfGuard struct {
	secret string
	secure bool
}

func (g csrfGuard) issue(c *gin.Context) {
	token, err := c.Cookie(csrfCookieName)
	if err != nil || !validToken(token, g.secret) {
		token, err = generateToken(g.secret)
		if err != nil {
			rejectCSRF(c, http.StatusInternalServerError, "failed to generate CSRF token")
			return
		}
		setCSRFCookie(c, token, g.secure)
	}
	c.Set(csrfContextKey, token)
	c.Next()
}

func (g csrfGuard) verify(c *gin.Context) {
	cookieToken, _ := c.Cookie(csrfCookieName)
	requestToken := c.GetHeader(csrfHeaderName)
	if requestToken == "" {
		requestToken = c.PostForm(csrfFormField)
	}

	switch {
	case cookieToken == "" || requestToken == "":
		rejectCSRF(c, http.StatusForbidden, "CSRF token missing")
	case !validToken(cookieToken, g.secret) || !validToken(requestToken, g.secret),
		!tokensMatch(cookieToken, requestToken):
		rejectCSRF(c, http.StatusForbidden, "CSRF token invalid")
	default:
		c.Set(csrfContextKey, cookieToken)
		c.Next()
	}
}

func rejectCSRF(c *gin.Context, status int, msg string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Reswap", "none")
		c.Header("HX-Trigger", csrfToast)
		c.AbortWithStatus(status)
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// GetCSRFToken returns the token the CSRF middleware stored for this request,
// or "" outside a protected route.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

// generateToken returns hex(nonce) + "." + base64url(HMAC-SHA256(nonce)).
func generateToken(secret string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	n := hex.EncodeToString(nonce)
	return n + "." + signNonce(n, secret), nil
}

func signNonce(nonce, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func validToken(token, secret string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(signNonce(nonce, secret))) == 1
}

func tokensMatch(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// setCSRFCookie stores the token in a script-readable, same-site cookie. It is
// marked Secure in release mode.
func setCSRFCookie(c *gin.Context, token string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
