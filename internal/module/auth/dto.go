package auth

import (
	"time"

	"github.com/simp-lee/leadboard/internal/domain"
)

// LoginRequest represents the input for user login.
type LoginRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=8"`
	CallbackURL string `json:"-" form:"callbackUrl"`
}

// RegisterRequest represents the input for user registration.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

// SessionResponse is the public view of a session.
type SessionResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt int64        `json:"expires_at"`
}

// UserResponse represents the public user data.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSessionResponse(s *domain.Session, withToken bool) SessionResponse {
	resp := SessionResponse{User: toUserResponse(s.User), ExpiresAt: s.ExpiresAt.Unix()}
	if withToken {
		resp.Token = s.Token
	}
	return resp
}
