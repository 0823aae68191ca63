package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// AuthHandler handles REST API requests for authentication.
type AuthHandler struct {
	svc        Service
	cookieName string
}

// NewHandler creates a new AuthHandler. Successful logins also set the
// session cookie named cookieName.
func NewHandler(svc Service, cookieName string) *AuthHandler {
	return &AuthHandler{svc: svc, cookieName: cookieName}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookieName, sess)
	pkg.Success(c, toSessionResponse(sess, true))
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, toUserResponse(user))
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		var err error
		sess, err = h.svc.Session(c.Request.Context(), middleware.SessionToken(c, h.cookieName))
		if err != nil {
			pkg.Error(c, err)
			return
		}
	}
	pkg.Success(c, toSessionResponse(sess, false))
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.SessionToken(c, h.cookieName)); err != nil {
		pkg.Error(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.cookieName)
	pkg.Success(c, nil)
}
