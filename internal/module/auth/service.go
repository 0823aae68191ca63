package auth

import (
	"context"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/jwt"

	"github.com/simp-lee/leadboard/internal/domain"
)

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	// Session resolves a token issued by Login back to its user.
	Session(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// ErrSessionExpired is returned for tokens that are invalid, revoked or
// belong to a user that no longer exists.
var ErrSessionExpired = domain.NewAppError(domain.CodeUnauthorized, "session expired, please sign in again", nil)

// authService implements Service.
type authService struct {
	jwtSvc      jwt.Service
	userRepo    domain.UserRepository
	tokenExpiry time.Duration
}

// NewService creates a new auth Service.
func NewService(jwtSvc jwt.Service, userRepo domain.UserRepository, tokenExpiry time.Duration) Service {
	return &authService{
		jwtSvc:      jwtSvc,
		userRepo:    userRepo,
		tokenExpiry: tokenExpiry,
	}
}

// Login authenticates a user by email and password and opens a session.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Unknown accounts and bad passwords look the same to the caller.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, s.internal(ctx, "login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwtSvc.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), nil, s.tokenExpiry)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}

	parsed, err := s.jwtSvc.ParseToken(token)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to parse generated token", err)
	}

	return &domain.Session{User: user, Token: token, ExpiresAt: parsed.ExpiresAt}, nil
}

// Session validates token and loads the user it was issued for.
func (s *authService) Session(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionExpired
	}

	parsed, err := s.jwtSvc.ValidateAndParse(token)
	if err != nil {
		return nil, ErrSessionExpired
	}

	id, err := strconv.ParseUint(parsed.UserID, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, ErrSessionExpired
		}
		return nil, s.internal(ctx, "session", err)
	}

	return &domain.Session{User: user, Token: token, ExpiresAt: parsed.ExpiresAt}, nil
}

// Logout revokes token. Logging out with an unknown or already revoked token
// succeeds.
func (s *authService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || s.jwtSvc.IsTokenRevoked(token) {
		return nil
	}
	if _, err := s.jwtSvc.ValidateToken(token); err != nil {
		return nil
	}
	if err := s.jwtSvc.RevokeToken(token); err != nil {
		return s.internal(ctx, "logout", err)
	}
	return nil
}

// validateRegisterInput validates registration input. name and email are expected
// to be pre-trimmed by callers; TrimSpace here ensures the validator is self-contained.
func validateRegisterInput(name, email, password string) error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen == 0 {
		return domain.NewValidationError("name is required")
	}
	if nameLen > 100 {
		return domain.NewValidationError("name must not exceed 100 characters")
	}
	trimmedEmail := strings.TrimSpace(email)
	if len(trimmedEmail) == 0 {
		return domain.NewValidationError("email is required")
	}
	addr, err := mail.ParseAddress(trimmedEmail)
	if err != nil || addr.Name != "" || addr.Address != trimmedEmail {
		return domain.NewValidationError("email must be a valid email address")
	}
	if len(password) < 8 {
		return domain.NewValidationError("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return domain.NewValidationError("password must not exceed 72 characters")
	}
	return nil
}

// Register creates a new user with the given credentials.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateRegisterInput(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}

	user := domain.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		if domain.IsAlreadyExists(err) {
			return nil, domain.NewAppError(domain.CodeAlreadyExists, "A user with this email already exists", err)
		}
		return nil, s.internal(ctx, "register", err)
	}

	return &user, nil
}

func (s *authService) internal(ctx context.Context, op string, err error) error {
	slog.ErrorContext(ctx, "auth operation failed", "op", op, "error", err)
	return domain.NewAppError(domain.CodeInternal, "Authentication failed", err)
}
