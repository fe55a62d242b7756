// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/assets"
	"github.com/codr1/wfxconsole/internal/api"
	"github.com/codr1/wfxconsole/internal/api/auth"
	"github.com/codr1/wfxconsole/internal/api/dashboard"
	"github.com/codr1/wfxconsole/internal/api/forms"
	gridapi "github.com/codr1/wfxconsole/internal/api/grid"
	"github.com/codr1/wfxconsole/internal/api/library"
	"github.com/codr1/wfxconsole/internal/api/nav"
	"github.com/codr1/wfxconsole/internal/api/passthrough"
	"github.com/codr1/wfxconsole/internal/api/settings"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/api/storageapi"
	themesapi "github.com/codr1/wfxconsole/internal/api/themes"
	usersapi "github.com/codr1/wfxconsole/internal/api/users"
	"github.com/codr1/wfxconsole/internal/config"
	appdb "github.com/codr1/wfxconsole/internal/db"
	"github.com/codr1/wfxconsole/internal/grid"
	"github.com/codr1/wfxconsole/internal/ratelimit"
	"github.com/codr1/wfxconsole/internal/scheduler"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/themes"
	"github.com/codr1/wfxconsole/internal/users"
	"github.com/codr1/wfxconsole/internal/widgets"
)

const (
	// Storage writes per device: sustained rate and burst.
	storageWritesPerSecond = 5
	storageWriteBurst      = 20
)

// app holds the process-wide services the handlers are initialized with.
type app struct {
	db        *appdb.DB
	store     *storage.Store
	pool      *themes.Pool
	limiter   *ratelimit.Limiter
	throttle  *ratelimit.Throttle
	scheduler *scheduler.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	registry, err := themes.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load theme catalogue: %w", err)
	}

	database, err := appdb.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.Open(ctx, storage.Options{
		KeyPrefix:     cfg.Storage.KeyPrefix,
		MaxValueBytes: cfg.Storage.MaxValueBytes,
		SessionTTL:    cfg.Storage.SessionTTL,
	}, func(ctx context.Context) (storage.Backend, error) {
		return storage.NewSQLBackend(ctx, database.Queries)
	})

	a := &app{
		db:       database,
		store:    store,
		pool:     themes.NewPool(registry, store, cfg.Theme.PoolIdleTTL),
		limiter:  ratelimit.New(ratelimit.DefaultConfig()),
		throttle: ratelimit.NewThrottle(storageWritesPerSecond, storageWriteBurst, nil),
	}

	a.scheduler, err = scheduler.New(ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if err := a.scheduler.RegisterMaintenance(scheduler.Maintenance{
		SweepSchedule: cfg.Storage.SweepSchedule,
		Sessions:      store,
		Pool:          a.pool,
		Logins:        a.limiter,
		Throttles:     []scheduler.ThrottleSweeper{a.throttle},
	}); err != nil {
		database.Close()
		return nil, fmt.Errorf("register maintenance jobs: %w", err)
	}

	userSvc := users.NewService(database.Queries)
	gridClient := grid.NewClient(cfg.Grid.APIURL, cfg.Grid.TransactionType, cfg.Grid.Timeout)

	shell.Init(cfg.App.Name)
	auth.InitHandlers(cfg, store, a.limiter, userSvc)
	storageapi.InitHandlers(a.pool, a.throttle)
	nav.InitHandlers(widgets.Default)
	library.InitHandlers(widgets.Default)
	passthrough.InitHandlers(widgets.Default)
	forms.InitHandlers(cfg)
	gridapi.InitHandlers(gridClient, cfg.Grid.PageSize)
	usersapi.InitHandlers(userSvc)
	dashboard.InitHandlers(userSvc)

	log.Info().
		Int("themes", len(registry.List())).
		Int("widgets", len(widgets.Default.All())).
		Bool("auth", cfg.Auth.Enabled).
		Msg("Application initialized")
	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database")
	}
}

func newServer(cfg *config.Config, a *app) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain. The last middleware listed runs first.
	handler := api.ChainMiddleware(
		router,
		auth.RequireLogin(cfg.Auth.Enabled),
		auth.WithClient(a.store, a.pool),
		api.WithContentType,
		api.WithSecurityHeaders,
		api.WithRecovery,
		api.WithLogging,
		api.WithRequestID,
	)

	// Register routes
	registerRoutes(router, cfg)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // theme events stream indefinitely
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("GET /login", auth.HandleLoginPage)
	mux.HandleFunc("POST /login", auth.HandleLogin)
	mux.HandleFunc("POST /logout", auth.HandleLogout)

	// Pages
	mux.HandleFunc("GET /", dashboard.HandleDashboardPage)
	mux.HandleFunc("GET /settings", settings.HandleSettingsPage)
	mux.HandleFunc("GET /library", library.HandleIndex)
	mux.HandleFunc("GET /library/{widget}", library.HandleShowcase)
	mux.HandleFunc("GET /forms", forms.HandlePage)
	mux.HandleFunc("POST /forms", forms.HandleSubmit)
	mux.HandleFunc("POST /forms/reset", forms.HandleReset)
	mux.HandleFunc("GET /passthrough", passthrough.HandlePage)
	mux.HandleFunc("GET /passthrough/render", passthrough.HandleRender)
	mux.HandleFunc("GET /grid", gridapi.HandleGridPage)
	mux.HandleFunc("GET /grid/rows", gridapi.HandleGridRows)
	mux.HandleFunc("GET /grid/cell/edit", gridapi.HandleCellEdit)
	mux.HandleFunc("GET /users", usersapi.HandleUsersPage)
	mux.HandleFunc("GET /users/list", usersapi.HandleUsersList)
	mux.HandleFunc("POST /users", usersapi.HandleCreateForm)

	// Navigation routes
	mux.HandleFunc("GET /api/v1/nav/menu", nav.HandleMenu)
	mux.HandleFunc("GET /api/v1/nav/menu/close", nav.HandleMenuClose)
	mux.HandleFunc("GET /api/v1/nav/search", nav.HandleSearch)

	// Theme routes
	mux.HandleFunc("GET /api/v1/theme", themesapi.HandleThemeCurrent)
	mux.HandleFunc("POST /api/v1/theme", themesapi.HandleThemeSet)
	mux.HandleFunc("GET /api/v1/themes", themesapi.HandleThemesList)
	mux.HandleFunc("GET /api/v1/theme/events", themesapi.HandleThemeEvents)

	// Settings routes
	mux.HandleFunc("POST /api/v1/settings/preferences", settings.HandlePreferencesUpdate)
	mux.HandleFunc("POST /api/v1/settings/sidebar", settings.HandleSidebarToggle)

	// Storage routes
	mux.HandleFunc("GET /api/v1/storage/{scope}", storageapi.HandleKeys)
	mux.HandleFunc("DELETE /api/v1/storage/{scope}", storageapi.HandleClear)
	mux.HandleFunc("GET /api/v1/storage/{scope}/{key}", storageapi.HandleGet)
	mux.HandleFunc("PUT /api/v1/storage/{scope}/{key}", storageapi.HandlePut)
	mux.HandleFunc("DELETE /api/v1/storage/{scope}/{key}", storageapi.HandleDelete)

	// Widget library routes
	mux.HandleFunc("GET /api/v1/library/widgets", library.HandleWidgetsList)
	mux.HandleFunc("POST /api/v1/library/events", library.HandleEvent)

	// Grid routes
	mux.HandleFunc("POST /api/v1/grid/cell", gridapi.HandleCellUpdate)

	// User routes
	mux.HandleFunc("GET /api/v1/users", usersapi.HandleListUsers)
	mux.HandleFunc("POST /api/v1/users", usersapi.HandleCreateUser)
	mux.HandleFunc("GET /api/v1/users/{id}", usersapi.HandleGetUser)
	mux.HandleFunc("PUT /api/v1/users/{id}", usersapi.HandleUpdateUser)
	mux.HandleFunc("DELETE /api/v1/users/{id}", usersapi.HandleDeleteUser)

	// Static files: a directory on disk overrides the embedded copy.
	var static http.Handler = http.FileServerFS(assets.Static())
	if dir := cfg.App.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			log.Info().Str("static_dir", dir).Msg("Serving static files from disk")
			static = http.FileServer(http.Dir(dir))
		}
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", static))
}
