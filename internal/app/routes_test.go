package app

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- test helpers ---

// routeTestFS returns a minimal template filesystem for route handler tests.
func routeTestFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{ define "base" }}{{ block "content" . }}{{ end }}{{ end }}`),
		},
		"templates/partials/nav.html": &fstest.MapFile{
			Data: []byte(`{{ define "nav" }}{{ end }}`),
		},
		"templates/home.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}home:{{ .CSRFToken }}{{ end }}`),
		},
		"templates/errors/404.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}404{{ end }}`),
		},
		"templates/errors/500.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}500{{ end }}`),
		},
	}
}

// setupTestRouter creates a gin.Engine with the route-test template renderer.
func setupTestRouter() *gin.Engine {
	r := gin.New()
	renderer, err := NewTemplateRenderer(routeTestFS(), true)
	if err != nil {
		panic("setup renderer: " + err.Error())
	}
	r.HTMLRender = renderer
	return r
}

func TestHealthHandler(t *testing.T) {
	closed := openTestSQLiteDB(t)
	sqlDB, err := closed.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	tests := []struct {
		name     string
		db       *gorm.DB
		code     int
		status   string
		database string
	}{
		{"reachable", openTestSQLiteDB(t), http.StatusOK, "ok", "ok"},
		{"closed pool", closed, http.StatusServiceUnavailable, "degraded", "error"},
		{"no database", nil, http.StatusServiceUnavailable, "degraded", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", healthHandler(tt.db))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.code, w.Code)
			var body struct {
				Status     string            `json:"status"`
				Components map[string]string `json:"components"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.database, body.Components["database"])
		})
	}
}

func TestHealthHandler_UsesRequestContextTimeout(t *testing.T) {
	registerBlockingPingDriver()
	sqlDB, err := sql.Open(blockingPingDriverName, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", healthHandler(db))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Less(t, time.Since(start), 300*time.Millisecond, "ping should stop with the request")
}

// --- NoRoute handler tests ---

func TestNoRouteHandler(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    string // "json", "html" or "toast"
	}{
		{"json client", "/campaigns/x/y", map[string]string{"Accept": "application/json"}, "json"},
		{"browser", "/campaigns/x/y", map[string]string{"Accept": "text/html"}, "html"},
		{"wildcard accept", "/nonexistent", map[string]string{"Accept": "*/*"}, "html"},
		{"json before wildcard", "/nonexistent", map[string]string{"Accept": "application/json, */*"}, "json"},
		{"api prefix", "/api/nonexistent", map[string]string{"Accept": "*/*"}, "json"},
		{"api v1 prefix", "/api/v1/leads/x/y", map[string]string{"Accept": "text/html"}, "json"},
		{"bare /api is a page", "/api", map[string]string{"Accept": "*/*"}, "html"},
		{"htmx", "/leads/x/y", map[string]string{"HX-Request": "true", "Accept": "text/html"}, "toast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupTestRouter()
			r.NoRoute(noRouteHandler())

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			switch tt.want {
			case "json":
				require.Equal(t, http.StatusNotFound, w.Code)
				assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "not found", body["error"])
				assert.Nil(t, body["data"])
			case "html":
				require.Equal(t, http.StatusNotFound, w.Code)
				assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
				assert.Contains(t, w.Body.String(), "404")
			case "toast":
				assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
				assert.Contains(t, w.Header().Get("HX-Trigger"), "Not Found")
			}
		})
	}
}

// --- Static routes tests ---

func TestRegisterStatic_ServesStylesheet(t *testing.T) {
	for _, mode := range []string{"debug", "release"} {
		t.Run(mode, func(t *testing.T) {
			r := gin.New()
			require.NoError(t, registerStatic(r, mode))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), ".badge")
			if mode == "release" {
				assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
			}
		})
	}
}

// --- RegisterRoutes validation tests ---

// mockModule implements Module for testing.
type mockModule struct {
	name   string
	called bool
}

func (m *mockModule) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	m.called = true
}

func TestRegisterRoutes_Validation(t *testing.T) {
	const secret = "test-secret-32-chars-long-enough"
	tests := []struct {
		name    string
		router  *gin.Engine
		deps    func(t *testing.T) *RouteDeps
		wantErr string
	}{
		{"nil router", nil, func(*testing.T) *RouteDeps { return &RouteDeps{} }, "router is nil"},
		{"nil deps", setupTestRouter(), func(*testing.T) *RouteDeps { return nil }, "route dependencies are nil"},
		{"no modules", setupTestRouter(), func(*testing.T) *RouteDeps {
			return &RouteDeps{CSRFSecret: secret}
		}, "at least one module is required"},
		{"empty csrf secret", setupTestRouter(), func(*testing.T) *RouteDeps {
			return &RouteDeps{Modules: []Module{&mockModule{}}}
		}, "csrf secret is required"},
		{"nil module", setupTestRouter(), func(t *testing.T) *RouteDeps {
			return &RouteDeps{Modules: []Module{&mockModule{}, nil}, DB: openTestSQLiteDB(t), Mode: "debug", CSRFSecret: secret}
		}, "module at index 1 is nil"},
		{"duplicate name", setupTestRouter(), func(t *testing.T) *RouteDeps {
			return &RouteDeps{
				Modules: []Module{&mockModule{name: "leads"}, &mockModule{name: "leads"}},
				DB:      openTestSQLiteDB(t), Mode: "debug", CSRFSecret: secret,
			}
		}, `module "leads" registered twice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterRoutes(tt.router, tt.deps(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegisterRoutes_CallsEveryModule(t *testing.T) {
	campaigns, leads := &mockModule{name: "campaign"}, &mockModule{name: "lead"}
	err := RegisterRoutes(setupTestRouter(), &RouteDeps{
		Modules:    []Module{campaigns, leads},
		DB:         openTestSQLiteDB(t),
		Mode:       "debug",
		CSRFSecret: "test-secret-32-chars-long-enough",
	})
	require.NoError(t, err)
	assert.True(t, campaigns.called)
	assert.True(t, leads.called)
}

// --- openTestSQLiteDB helper ---

func openTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db
}

const blockingPingDriverName = "blocking_ping"

var registerBlockingPingDriverOnce sync.Once

func registerBlockingPingDriver() {
	registerBlockingPingDriverOnce.Do(func() {
		sql.Register(blockingPingDriverName, blockingPingDriver{})
	})
}

type blockingPingDriver struct{}

func (blockingPingDriver) Open(string) (driver.Conn, error) {
	return blockingPingConn{}, nil
}

type blockingPingConn struct{}

func (blockingPingConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (blockingPingConn) Close() error                        { return nil }
func (blockingPingConn) Begin() (driver.Tx, error)           { return blockingPingTx{}, nil }

func (blockingPingConn) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type blockingPingTx struct{}

func (blockingPingTx) Commit() error   { return nil }
func (blockingPingTx) Rollback() error { return nil }
