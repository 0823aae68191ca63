package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/web"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	// Session gates the API and page groups when set.
	Session    gin.HandlerFunc
	DB         *gorm.DB
	Mode       string // "debug" or "release"
	CSRFSecret string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}

	if err := registerStatic(r, deps.Mode); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	r.GET("/health", healthHandler(deps.DB))

	// API routes, no CSRF.
	api := r.Group("/api/v1")

	// Page routes, with CSRF.
	pages := r.Group("/")
	pages.Use(middleware.CSRF(deps.CSRFSecret))

	if deps.Session != nil {
		api.Use(deps.Session)
		pages.Use(deps.Session)
	}

	seen := make(map[string]bool, len(deps.Modules))
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		name := m.Name()
		if seen[name] {
			return fmt.Errorf("module %q registered twice", name)
		}
		seen[name] = true
		m.RegisterRoutes(api, pages)
		slog.Debug("module registered", slog.String("module", name))
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler reports whether the database answers a ping within a second.
// A failed ping yields 503 with status "degraded".
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "ok"
		if err := pingDB(c.Request.Context(), db); err != nil {
			slog.WarnContext(c.Request.Context(), "health check failed", slog.Any("error", err))
			database = "error"
		}

		code, status := http.StatusOK, "ok"
		if database != "ok" {
			code, status = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{
			"status":     status,
			"components": gin.H{"database": database},
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// noRouteHandler answers unknown paths through renderError.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "not found")
	}
}

// registerStatic serves web/static under /static. Debug mode reads from disk
// so CSS edits show up on reload; release mode serves the embedded copy with a
// one day cache.
func registerStatic(r *gin.Engine, mode string) error {
	if mode == "debug" {
		dir, err := debugStaticDir()
		if err != nil {
			return fmt.Errorf("resolve debug static filesystem: %w", err)
		}
		files := http.StripPrefix("/static", http.FileServer(http.Dir(dir)))
		r.GET("/static/*filepath", gin.WrapH(files))
		return nil
	}

	static, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return fmt.Errorf("create sub filesystem for static assets: %w", err)
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(static)))
	return nil
}

// debugStaticDir locates web/static relative to this source file.
func debugStaticDir() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("resolve current file path")
	}
	dir := filepath.Join(filepath.Dir(file), "..", "..", "web", "static")
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("stat static directory %q: %w", dir, err)
	}
	return filepath.Clean(dir), nil
}

func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	files := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(c.Writer, c.Request)
	}
}
