package auth

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// AuthPageHandler serves the sign-in and sign-up pages and their htmx
// form endpoints.
type AuthPageHandler struct {
	svc        Service
	cookieName string
}

// NewAuthPageHandler creates a new AuthPageHandler.
func NewAuthPageHandler(svc Service, cookieName string) *AuthPageHandler {
	return &AuthPageHandler{svc: svc, cookieName: cookieName}
}

// LoginPage renders the sign-in form.
// GET /login
func (h *AuthPageHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, "", c.Query("callbackUrl"), "")
}

// SignupPage renders the sign-up form.
// GET /signup
func (h *AuthPageHandler) SignupPage(c *gin.Context) {
	h.renderSignup(c, RegisterRequest{}, "")
}

// LoginHTMX signs the user in and navigates to the callback URL.
// POST /login
func (h *AuthPageHandler) LoginHTMX(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, req.Email, req.CallbackURL, "Please enter a valid email and password")
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderLogin(c, req.Email, req.CallbackURL, pkg.PageErrorMessage(err, "Sign in failed"))
		return
	}

	middleware.SetSessionCookie(c, h.cookieName, sess)
	pkg.SetToast(c, "Welcome back, "+sess.User.Name, "success")
	pkg.HXRedirect(c, SafeCallback(req.CallbackURL))
}

// SignupHTMX creates an account and sends the user to the sign-in page.
// POST /signup
func (h *AuthPageHandler) SignupHTMX(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderSignup(c, req, "Please check the highlighted fields")
		return
	}

	if _, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		h.renderSignup(c, req, pkg.PageErrorMessage(err, "Sign up failed"))
		return
	}

	pkg.SetToast(c, "Account created, please sign in", "success")
	pkg.HXRedirect(c, "/login")
}

// Logout revokes the session and returns to the sign-in page.
// POST /logout
func (h *AuthPageHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.SessionToken(c, h.cookieName)); err != nil {
		pkg.ToastError(c, pkg.PageErrorMessage(err, "Sign out failed"))
		return
	}
	middleware.ClearSessionCookie(c, h.cookieName)
	if pkg.IsHTMX(c) {
		pkg.HXRedirect(c, "/login")
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthPageHandler) renderLogin(c *gin.Context, email, callback, errMsg string) {
	c.HTML(http.StatusOK, "auth/login.html", gin.H{
		"Title":       "Sign in",
		"Email":       email,
		"CallbackURL": SafeCallback(callback),
		"Error":       errMsg,
		"CSRFToken":   middleware.GetCSRFToken(c),
	})
}

func (h *AuthPageHandler) renderSignup(c *gin.Context, req RegisterRequest, errMsg string) {
	c.HTML(http.StatusOK, "auth/signup.html", gin.H{
		"Title":     "Create account",
		"Name":      req.Name,
		"Email":     req.Email,
		"Error":     errMsg,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// SafeCallback returns callback when it is a same-origin path, and "/"
// otherwise. Control characters are refused outright: browsers drop tabs and
// newlines from URLs, which would turn "/\t/host" into "//host".
func SafeCallback(callback string) string {
	callback = strings.TrimSpace(callback)
	if strings.IndexFunc(callback, unicode.IsControl) >= 0 {
		return "/"
	}
	if !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") || strings.HasPrefix(callback, "/\\") {
		return "/"
	}
	if callback == "/login" || strings.HasPrefix(callback, "/login?") {
		return "/"
	}
	return callback
}
