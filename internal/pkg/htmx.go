package pkg

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/leadboard/internal/domain"
)

// SetToast sets the HX-Trigger response header with a showToast event.
func SetToast(c *gin.Context, message, toastType string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    toastType,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// HXRedirect tells htmx to navigate to location after a successful submit.
func HXRedirect(c *gin.Context, location string) {
	c.Header("HX-Redirect", location)
	c.Status(http.StatusOK)
}

// ToastError reports a failed htmx action without swapping any content.
func ToastError(c *gin.Context, message string) {
	c.Header("HX-Reswap", "none")
	SetToast(c, message, "error")
	c.Status(http.StatusOK)
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// PageErrorMessage extracts a user-safe error message from an AppError.
// Only messages from user-facing error codes (NotFound, AlreadyExists,
// Validation, Unauthorized) are returned; anything else yields fallback.
func PageErrorMessage(err error, fallback string) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		switch appErr.Code {
		case domain.CodeNotFound, domain.CodeAlreadyExists, domain.CodeValidation, domain.CodeUnauthorized:
			return appErr.Message
		}
	}
	return fallback
}

// ParseUUID parses s as a non-nil UUID.
func ParseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, errors.New("nil uuid")
	}
	return id, nil
}

// ParseUUIDParam parses the named path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := ParseUUID(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("invalid " + name)
	}
	return id, nil
}

// ParseUUIDQuery parses the named query parameter as a UUID.
func ParseUUIDQuery(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := ParseUUID(c.Query(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("invalid " + name)
	}
	return id, nil
}
