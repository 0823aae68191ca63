package campaign

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/module/lead"
)

// setupPageRouter wires the page handler to SQLite-backed services and stub
// templates that print the values under test.
func setupPageRouter(t *testing.T) (*gin.Engine, *campaignService, domain.LeadService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, repo := newTestService(t)
	db := repo.(*campaignRepository).db
	leads := lead.NewLeadService(lead.NewLeadRepository(db), repo)
	h := NewCampaignPageHandler(svc, leads, 5)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(
		`{{define "campaigns/list.html"}}list:{{len .Campaigns}}:{{.Pager.Meta.Total}}:{{.Params.Status}}{{end}}` +
			`{{define "campaigns/detail.html"}}detail:{{.Campaign.Name}}:{{len .Leads}}{{end}}` +
			`{{define "campaigns/form.html"}}form:{{.IsEdit}}{{if .Error}}:{{.Error}}{{end}}{{end}}` +
			`{{define "errors/400.html"}}400{{end}}` +
			`{{define "errors/404.html"}}404{{end}}` +
			`{{define "errors/500.html"}}500{{end}}`,
	)))

	r.GET("/campaigns", h.ListPage)
	r.GET("/campaigns/new", h.NewPage)
	r.GET("/campaigns/:id", h.DetailPage)
	r.GET("/campaigns/:id/edit", h.EditPage)
	r.POST("/campaigns", h.CreateHTMX)
	r.PUT("/campaigns/:id", h.UpdateHTMX)
	r.DELETE("/campaigns/:id", h.DeleteHTMX)
	return r, svc, leads
}

func serve(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func toast(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &payload))
	return payload["showToast"]
}

func TestListPage_FiltersAndCounts(t *testing.T) {
	r, svc, _ := setupPageRouter(t)
	for _, s := range []domain.CampaignStatus{domain.CampaignActive, domain.CampaignPaused, domain.CampaignCompleted} {
		_, err := svc.CreateCampaign(t.Context(), domain.NewCampaign{Name: string(s), Status: s})
		require.NoError(t, err)
	}

	w := serve(r, http.MethodGet, "/campaigns?status=inactive&limit=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list:1:2:inactive", w.Body.String())
}

func TestDetailPage_ShowsCampaignLeads(t *testing.T) {
	r, svc, leads := setupPageRouter(t)
	c, err := svc.CreateCampaign(t.Context(), domain.NewCampaign{Name: "Spring"})
	require.NoError(t, err)
	other, err := svc.CreateCampaign(t.Context(), domain.NewCampaign{Name: "Other"})
	require.NoError(t, err)
	for i, id := range []uuid.UUID{c.ID, c.ID, other.ID} {
		_, err := leads.CreateLead(t.Context(), domain.NewLead{
			Name: "L", Email: string(rune('a'+i)) + "@example.com", Company: "Acme", Title: "CTO", CampaignID: id,
		})
		require.NoError(t, err)
	}

	w := serve(r, http.MethodGet, "/campaigns/"+c.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "detail:Spring:2", w.Body.String())
}

func TestDetailPage_Errors(t *testing.T) {
	r, _, _ := setupPageRouter(t)

	w := serve(r, http.MethodGet, "/campaigns/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/campaigns/garbage/edit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateHTMX_Success(t *testing.T) {
	r, svc, _ := setupPageRouter(t)

	form := url.Values{"name": {"Launch"}, "status": {"draft"}, "total_leads": {"8"}, "successful_leads": {"1"}}
	w := serve(r, http.MethodPost, "/campaigns", form)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/campaigns", w.Header().Get("HX-Redirect"))
	assert.Equal(t, map[string]string{"message": "Campaign created", "type": "success"}, toast(t, w))

	page, err := svc.ListCampaigns(t.Context(), domain.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 13, page.Items[0].ResponseRate)
}

func TestCreateHTMX_RerendersOnError(t *testing.T) {
	r, _, _ := setupPageRouter(t)

	w := serve(r, http.MethodPost, "/campaigns", url.Values{"name": {""}})
	assert.Equal(t, "form:false:Please check the highlighted fields", w.Body.String())

	w = serve(r, http.MethodPost, "/campaigns", url.Values{"name": {"x"}, "total_leads": {"1"}, "successful_leads": {"3"}})
	assert.Equal(t, "form:false:successful_leads must not exceed total_leads", w.Body.String())
	assert.Empty(t, w.Header().Get("HX-Redirect"))
}

func TestUpdateHTMX(t *testing.T) {
	r, svc, _ := setupPageRouter(t)
	c, err := svc.CreateCampaign(t.Context(), domain.NewCampaign{Name: "Old"})
	require.NoError(t, err)

	form := url.Values{"name": {"New"}, "status": {"paused"}, "total_leads": {"4"}, "successful_leads": {"1"}}
	w := serve(r, http.MethodPut, "/campaigns/"+c.ID.String(), form)
	assert.Equal(t, "/campaigns/"+c.ID.String(), w.Header().Get("HX-Redirect"))

	got, err := svc.GetCampaign(t.Context(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, domain.CampaignPaused, got.Status)
	assert.Equal(t, 25, got.ResponseRate)

	w = serve(r, http.MethodPut, "/campaigns/"+uuid.NewString(), form)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteHTMX(t *testing.T) {
	r, svc, _ := setupPageRouter(t)
	c, err := svc.CreateCampaign(t.Context(), domain.NewCampaign{Name: "Doomed"})
	require.NoError(t, err)

	w := serve(r, http.MethodDelete, "/campaigns/"+c.ID.String(), nil)
	assert.Equal(t, "Campaign deleted", toast(t, w)["message"])
	assert.Equal(t, "/campaigns", w.Header().Get("HX-Redirect"))

	w = serve(r, http.MethodDelete, "/campaigns/"+c.ID.String(), nil)
	assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
	assert.Equal(t, map[string]string{"message": "Campaign not found", "type": "error"}, toast(t, w))
}
