package lead

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/domain"
)

type apiResponse[T any] struct {
	Success bool                   `json:"success"`
	Data    T                      `json:"data"`
	Meta    *domain.PaginationMeta `json:"meta"`
	Error   string                 `json:"error"`
	Errors  map[string]string      `json:"errors"`
}

func setupAPIRouter(t *testing.T) (*gin.Engine, *gorm.DB, *clock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, db, clk := newTestService(t)
	h := NewLeadHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/leads", h.List)
	api.POST("/leads", h.Create)
	api.GET("/leads/:id", h.Get)
	api.PATCH("/leads/:id", h.Update)
	api.PATCH("/leads/:id/status", h.UpdateStatus)
	api.DELETE("/leads/:id", h.Delete)
	api.GET("/activity", h.Activity)
	return r, db, clk
}

func doJSON[T any](t *testing.T, r http.Handler, method, path, body string) (int, apiResponse[T]) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w.Code, resp
}

func TestLeadHandler_CreateAndConflict(t *testing.T) {
	r, db, _ := setupAPIRouter(t)
	c := seedCampaign(t, db, "Spring")
	body := `{"name":"Ann","email":"ann@example.com","company":"Acme","title":"CTO","campaign_id":"` + c.ID.String() + `"}`

	code, resp := doJSON[domain.Lead](t, r, http.MethodPost, "/api/v1/leads", body)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Spring", resp.Data.CampaignName)
	assert.Equal(t, domain.LeadPending, resp.Data.Status)

	code, conflict := doJSON[any](t, r, http.MethodPost, "/api/v1/leads", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "A lead with this email already exists", conflict.Error)
}

func TestLeadHandler_Create_Validation(t *testing.T) {
	r, _, _ := setupAPIRouter(t)

	code, resp := doJSON[any](t, r, http.MethodPost, "/api/v1/leads", `{"name":"Ann","email":"nope","campaign_id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email", resp.Errors["email"])
	assert.Equal(t, "uuid", resp.Errors["campaign_id"])
	assert.Equal(t, "required", resp.Errors["company"])
}

func TestLeadHandler_ListFilters(t *testing.T) {
	r, db, _ := setupAPIRouter(t)
	spring := seedCampaign(t, db, "Spring Launch")
	winter := seedCampaign(t, db, "Winter")
	seedLead(t, db, leadSeed{name: "Ann", campaignID: spring.ID, status: domain.LeadContacted})
	seedLead(t, db, leadSeed{name: "Bob", campaignID: winter.ID, status: domain.LeadContacted, age: time.Hour})

	code, resp := doJSON[[]domain.Lead](t, r, http.MethodGet, "/api/v1/leads?status=contacted&campaign=spring", "")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ann", resp.Data[0].Name)
	assert.Equal(t, "Spring Launch", resp.Data[0].CampaignName)
	assert.EqualValues(t, 1, resp.Meta.Total)
}

func TestLeadHandler_StatusAndDelete(t *testing.T) {
	r, db, clk := setupAPIRouter(t)
	c := seedCampaign(t, db, "Spring")
	l := seedLead(t, db, leadSeed{name: "Ann", campaignID: c.ID, age: 24 * time.Hour})
	path := "/api/v1/leads/" + l.ID.String()

	clk.advance(time.Minute)
	code, resp := doJSON[domain.Lead](t, r, http.MethodPatch, path+"/status", `{"status":"responded"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.LeadResponded, resp.Data.Status)
	assert.True(t, resp.Data.LastContactDate.Equal(clk.t))

	code, bad := doJSON[any](t, r, http.MethodPatch, path+"/status", `{"status":"won"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "oneof=pending contacted responded converted", bad.Errors["status"])

	code, resp = doJSON[domain.Lead](t, r, http.MethodPatch, path, `{"company":"Globex"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Globex", resp.Data.Company)

	code, resp = doJSON[domain.Lead](t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, l.ID, resp.Data.ID)

	code, missing := doJSON[any](t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Lead not found", missing.Error)
}

func TestLeadHandler_PatchStampsOnlyOnStatusChange(t *testing.T) {
	r, db, clk := setupAPIRouter(t)
	c := seedCampaign(t, db, "Spring")
	l := seedLead(t, db, leadSeed{name: "Ann", campaignID: c.ID, status: domain.LeadContacted, age: 24 * time.Hour})
	path := "/api/v1/leads/" + l.ID.String()

	clk.advance(time.Minute)
	code, resp := doJSON[domain.Lead](t, r, http.MethodPatch, path, `{"status":"contacted","title":"CEO"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "CEO", resp.Data.Title)
	assert.True(t, resp.Data.LastContactDate.Equal(l.LastContactDate), "repeated status keeps %v, got %v", l.LastContactDate, resp.Data.LastContactDate)

	clk.advance(time.Minute)
	code, resp = doJSON[domain.Lead](t, r, http.MethodPatch, path, `{"status":"converted"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.LeadConverted, resp.Data.Status)
	assert.True(t, resp.Data.LastContactDate.Equal(clk.t), "changed status stamps %v, got %v", clk.t, resp.Data.LastContactDate)
}

func TestLeadHandler_Activity(t *testing.T) {
	r, db, _ := setupAPIRouter(t)
	c := seedCampaign(t, db, "Spring")
	for i := 0; i < 3; i++ {
		seedLead(t, db, leadSeed{name: "lead", campaignID: c.ID, age: time.Duration(i) * time.Hour})
	}

	code, resp := doJSON[[]domain.Lead](t, r, http.MethodGet, "/api/v1/activity?page=2&limit=2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, domain.PaginationMeta{
		Page: 2, Limit: 2, Total: 3, TotalPages: 2, HasNextPage: false, HasPreviousPage: true,
	}, *resp.Meta)
}

func TestLeadHandler_InvalidID(t *testing.T) {
	r, _, _ := setupAPIRouter(t)

	code, resp := doJSON[any](t, r, http.MethodGet, "/api/v1/leads/123", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid id", resp.Error)

	code, _ = doJSON[any](t, r, http.MethodDelete, "/api/v1/leads/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, code)
}
