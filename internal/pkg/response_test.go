package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/leadboard/internal/domain"
)

type createLeadInput struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
}

func newResponseTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func TestSuccess(t *testing.T) {
	c, w := newResponseTestContext("")
	Success(c, map[string]string{"name": "Q3 outreach"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "meta", "single-entity responses carry no meta")
	assert.Equal(t, map[string]any{"name": "Q3 outreach"}, body["data"])
}

func TestCreated(t *testing.T) {
	c, w := newResponseTestContext("")
	Created(c, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", domain.NewAppError(domain.CodeNotFound, "Campaign not found", nil), http.StatusNotFound, "Campaign not found"},
		{"conflict", domain.NewAppError(domain.CodeAlreadyExists, "A lead with this email already exists", nil), http.StatusConflict, "A lead with this email already exists"},
		{"validation", domain.NewValidationError("successful_leads must not exceed total_leads"), http.StatusBadRequest, "successful_leads must not exceed total_leads"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "invalid email or password"},
		{"datastore", domain.NewAppError(domain.CodeInternal, "Failed to fetch leads", errors.New("driver: bad connection")), http.StatusInternalServerError, "Failed to fetch leads"},
		{"plain error", errors.New("pq: secret detail"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext("")
			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
			assert.NotContains(t, w.Body.String(), "driver")
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}

func TestList_Success(t *testing.T) {
	c, w := newResponseTestContext("")
	List(c, domain.PaginatedResponse[string]{
		Success: true,
		Data:    []string{"a", "b"},
		Meta:    NewPaginationMeta(2, 2, 5),
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                  `json:"success"`
		Data    []string              `json:"data"`
		Meta    domain.PaginationMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasNextPage)
	assert.True(t, resp.Meta.HasPreviousPage)
}

func TestList_FailureKeepsMeta(t *testing.T) {
	c, w := newResponseTestContext("")
	List(c, PackagePage[string](nil, domain.NewAppError(domain.CodeInternal, "Failed to fetch campaigns", errors.New("timeout")), 20))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
	body := decodeResponse(t, w)
	assert.Equal(t, "Failed to fetch campaigns", body["error"])
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok, "meta missing: %s", w.Body.String())
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(20), meta["limit"])
	assert.Equal(t, float64(0), meta["total"])
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		ok        bool
		wantError string
		wantRules map[string]any
	}{
		{"valid", `{"name":"Ann Lee","email":"ann@example.com"}`, true, "", nil},
		{"field rules", `{"name":"A","email":"not-an-email"}`, false, "validation error",
			map[string]any{"name": "min=2", "email": "email"}},
		{"malformed", `{"name":`, false, "malformed JSON body", nil},
		{"wrong type", `{"name":42}`, false, "invalid value for name", nil},
		{"empty body", ``, false, "request body is empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext(tt.body)
			var in createLeadInput
			require.Equal(t, tt.ok, BindAndValidate(c, &in), w.Body.String())
			if tt.ok {
				assert.Equal(t, createLeadInput{Name: "Ann Lee", Email: "ann@example.com"}, in)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantRules == nil {
				assert.NotContains(t, body, "errors")
			} else {
				assert.Equal(t, tt.wantRules, body["errors"])
			}
		})
	}
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom"), nil))
}

func TestJSONNames(t *testing.T) {
	type audit struct {
		CreatedBy string `json:"created_by,omitempty"`
	}
	type form struct {
		audit
		Name    string `json:"name"`
		Skipped string `json:"-"`
		Plain   string
	}
	assert.Equal(t, map[string]string{"CreatedBy": "created_by", "Name": "name"}, jsonNames(&form{}))
	assert.Nil(t, jsonNames("not a struct"))
	assert.Nil(t, jsonNames(nil))
}
