package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/config"
	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/internal/module/auth"
	"github.com/simp-lee/leadboard/internal/module/campaign"
	"github.com/simp-lee/leadboard/internal/module/dashboard"
	"github.com/simp-lee/leadboard/internal/module/lead"
	"github.com/simp-lee/leadboard/web"
)

const shutdownTimeout = 5 * time.Second

// App is the wired dashboard: engine, database, logger and, when auth is
// enabled, the token service.
type App struct {
	engine     *gin.Engine
	db         *gorm.DB
	logger     *logger.Logger
	cfg        *config.Config
	jwtService jwt.Service
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New builds the App described by cfg. Anything opened before a failure is
// released before New returns.
func New(cfg *config.Config) (_ *App, err error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	undo = append(undo, func() { closeLogger(log) })

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("debug mode is listening on all interfaces with permissive CORS")
	}

	csrfSecret, err := resolveCSRFSecret(cfg.Server.Mode, cfg.Server.CSRFSecret)
	if err != nil {
		return nil, err
	}
	if csrfSecret != cfg.Server.CSRFSecret {
		log.Warn("csrf_secret not set, using a random secret until restart")
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	undo = append(undo, func() { closeDB(log.Logger, db) })

	if cfg.Database.Migrate {
		applied, err := config.Migrate(context.Background(), db, cfg.Database.Driver, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied", slog.Int64("count", applied))
	}

	modules := dashboardModules(db, cfg.Dashboard.PageWindow)

	var (
		jwtSvc  jwt.Service
		session gin.HandlerFunc
	)
	if cfg.Auth.Enabled {
		if jwtSvc, err = jwt.New(cfg.Auth.JWTSecret); err != nil {
			return nil, fmt.Errorf("setup jwt: %w", err)
		}
		undo = append(undo, jwtSvc.Close)

		authSvc := auth.NewService(jwtSvc, auth.NewUserRepository(db), cfg.Auth.TokenTTL())
		modules = append(modules, auth.NewModule(
			auth.NewHandler(authSvc, cfg.Auth.CookieName),
			auth.NewAuthPageHandler(authSvc, cfg.Auth.CookieName),
		))
		session = middleware.Session(authSvc, middleware.SessionConfig{
			CookieName:  cfg.Auth.CookieName,
			PublicPaths: cfg.Auth.PublicPaths,
		})
	}

	engine, err := newEngine(cfg.Server, log.Logger)
	if err != nil {
		return nil, err
	}
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:    modules,
		Session:    session,
		DB:         db,
		Mode:       cfg.Server.Mode,
		CSRFSecret: csrfSecret,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	return &App{engine: engine, db: db, logger: log, cfg: cfg, jwtService: jwtSvc}, nil
}

// dashboardModules wires repositories, services and handlers for the home,
// campaign and lead pages.
func dashboardModules(db *gorm.DB, window int) []Module {
	campaignRepo := campaign.NewCampaignRepository(db)
	campaignSvc := campaign.NewCampaignService(campaignRepo)
	leadSvc := lead.NewLeadService(lead.NewLeadRepository(db), campaignRepo)

	return []Module{
		dashboard.NewModule(dashboard.NewDashboardPageHandler(campaignSvc, leadSvc, window)),
		campaign.NewModule(
			campaign.NewCampaignHandler(campaignSvc),
			campaign.NewCampaignPageHandler(campaignSvc, leadSvc, window),
		),
		lead.NewModule(
			lead.NewLeadHandler(leadSvc),
			lead.NewLeadPageHandler(leadSvc, campaignSvc, window),
		),
	}
}

// newEngine returns a gin engine with the global middleware chain and the
// template renderer. Debug mode reads templates from disk on every render.
func newEngine(srv config.ServerConfig, log *slog.Logger) (*gin.Engine, error) {
	gin.SetMode(srv.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log, "/static/", "/health"),
		middleware.CORSWithConfig(resolveCORSConfig(srv.Mode, srv.CORS)),
	)

	debug := srv.Mode == gin.DebugMode
	fsys := fs.FS(web.EmbeddedFS)
	if debug {
		dir, err := debugWebDir()
		if err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
		fsys = os.DirFS(dir)
	}
	renderer, err := NewTemplateRenderer(fsys, debug)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer
	return engine, nil
}

// Handler exposes the configured engine, mainly for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down within five
// seconds and releases the token service, database and logger.
func (a *App) Run() error {
	switch {
	case a == nil:
		return errors.New("app is nil")
	case a.cfg == nil:
		return errors.New("app config is nil")
	case a.engine == nil:
		return errors.New("app engine is nil")
	}
	log := a.log()

	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
		cancel()
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if a.jwtService != nil {
		a.jwtService.Close()
	}
	if a.db != nil {
		closeDB(log, a.db)
	}
	log.Info("server stopped")
	if a.logger != nil {
		closeLogger(a.logger)
	}
	return runErr
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger.Logger
	}
	return slog.Default()
}

func closeDB(log *slog.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

func closeLogger(l *logger.Logger) {
	if err := l.Close(); err != nil {
		slog.Error("logger close error", slog.Any("error", err))
	}
}

var placeholderSecrets = map[string]bool{
	"":                             true,
	"change-me-to-a-random-secret": true,
	"change-me-in-env":             true,
}

// resolveCSRFSecret returns the configured secret. Outside release mode a
// missing or placeholder secret is replaced with a random one; release mode
// rejects it and also requires 32+ characters from three character classes.
func resolveCSRFSecret(mode, secret string) (string, error) {
	trimmed := strings.TrimSpace(secret)
	release := mode == gin.ReleaseMode

	if placeholderSecrets[strings.ToLower(trimmed)] {
		if release {
			return "", errors.New("csrf_secret must be a non-placeholder value in release mode")
		}
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("generate csrf secret: %w", err)
		}
		return hex.EncodeToString(b), nil
	}

	switch {
	case !release:
	case len(trimmed) < 32:
		return "", errors.New("csrf_secret must be at least 32 characters in release mode")
	case config.CountSecretClasses(trimmed) < 3:
		return "", errors.New("csrf_secret must include at least 3 character classes (lower, upper, digit, symbol) in release mode")
	}
	return secret, nil
}

// resolveCORSConfig overlays the configured CORS settings on the defaults.
// In release mode an empty allowlist denies cross-origin requests.
func resolveCORSConfig(mode string, configured config.CORSConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	switch {
	case len(configured.AllowOrigins) > 0:
		cors.AllowOrigins = configured.AllowOrigins
	case mode == gin.ReleaseMode:
		cors.AllowOrigins = []string{}
	}
	if len(configured.AllowMethods) > 0 {
		cors.AllowMethods = configured.AllowMethods
	}
	if len(configured.AllowHeaders) > 0 {
		cors.AllowHeaders = configured.AllowHeaders
	}
	cors.AllowCredentials = configured.AllowCredentials
	if d, err := time.ParseDuration(configured.MaxAge); err == nil && d > 0 {
		cors.MaxAge = strconv.Itoa(int(d.Seconds()))
	}
	return cors
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	}
	return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
}

// debugWebDir locates web/ next to the source tree, then next to the binary.
func debugWebDir() (string, error) {
	var candidates []string
	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "web"))
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "web"))
	}
	for _, dir := range candidates {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return filepath.Clean(dir), nil
		}
	}
	return "", errors.New("debug web directory not found")
}
