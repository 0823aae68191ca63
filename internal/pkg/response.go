package pkg

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/leadboard/internal/domain"
)

// Response is the standard JSON envelope for API responses.
type Response struct {
	Success bool                   `json:"success"`
	Data    any                    `json:"data"`
	Meta    *domain.PaginationMeta `json:"meta,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Errors  map[string]string      `json:"errors,omitempty"`
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created sends a 201 JSON response with the newly created entity.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Error sends a JSON error response. If err is a *domain.AppError, its code is
// mapped to the appropriate HTTP status and its message is returned; any
// other error yields a generic 500 so driver text never reaches clients.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	msg := "internal error"
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, Response{Success: false, Error: msg})
}

// List sends a packaged listing. Failed listings keep their well-formed meta
// and are sent with status 500.
func List[T any](c *gin.Context, resp domain.PaginatedResponse[T]) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusInternalServerError
	}
	meta := resp.Meta
	c.JSON(status, Response{
		Success: resp.Success,
		Data:    resp.Data,
		Meta:    &meta,
		Error:   resp.Error,
	})
}

// BindAndValidate binds the request into obj. On failure it writes a 400
// with either per-field rules under "errors" or a short decode message, and
// returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	err := c.ShouldBind(obj)
	if err == nil {
		return true
	}
	resp := Response{Success: false, Error: bindErrorMessage(err)}
	if fields := FieldErrors(err, obj); fields != nil {
		resp.Error, resp.Errors = "validation error", fields
	}
	c.JSON(http.StatusBadRequest, resp)
	return false
}

// FieldErrors flattens validator.ValidationErrors into field → rule pairs,
// e.g. "email" → "email" or "name" → "min=2", keyed by the JSON name of the
// field in obj when it has one. It returns nil when err is not a validation
// error. Page handlers use it to annotate re-rendered forms.
func FieldErrors(err error, obj any) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	names := jsonNames(obj)
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		name, ok := names[fe.StructField()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		rule := fe.Tag()
		if p := fe.Param(); p != "" {
			rule += "=" + p
		}
		out[name] = rule
	}
	return out
}

// jsonNames maps struct field names of obj to their JSON names.
func jsonNames(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	names := make(map[string]string)
	for _, f := range reflect.VisibleFields(t) {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			names[f.Name] = name
		}
	}
	return names
}

// bindErrorMessage hides decoder internals for malformed bodies.
func bindErrorMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON body"
	case errors.As(err, &typeErr):
		return "invalid value for " + typeErr.Field
	case errors.Is(err, io.EOF):
		return "request body is empty"
	}
	return "invalid request"
}
