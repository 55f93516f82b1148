package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wisetech/console/internal/config"
	"github.com/wisetech/console/internal/dashboard"
	"github.com/wisetech/console/internal/handler"
	"github.com/wisetech/console/internal/middleware"
	"github.com/wisetech/console/internal/session"
	"github.com/wisetech/console/pkg/wisetech"
)

// main is the application entrypoint for the WiseTech console.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting wisetech console")

	// 3. Open the session backend
	storage, cleanup, err := openStorage(cfg)
	if err != nil {
		log.Error().Err(err).Msg("session backend initialization failed")
		fmt.Fprintf(os.Stderr, "session backend initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()
	log.Info().Str("backend", cfg.Session.Backend).Msg("session backend ready")

	// 4. Initialize the WiseTech API client
	client := wisetech.NewClient(wisetech.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Debug:   !cfg.IsProduction(),
	})

	// 5. Initialize session store, guard, and dashboard manager
	sessions := session.NewStore(storage)
	guard := middleware.NewGuard(sessions)
	dashboards := dashboard.NewManager()

	// 6. Initialize handlers
	handlers := &Handlers{
		Auth:    handler.NewAuthHandler(client, sessions, dashboards),
		Gadget:  handler.NewGadgetHandler(client),
		Review:  handler.NewReviewHandler(client, sessions),
		Profile: handler.NewProfileHandler(client, sessions),
		Admin:   handler.NewAdminHandler(client, sessions, dashboards),
	}

	// 7. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SessionMiddleware(
		cfg.Session.CookieName,
		int(cfg.Session.TTL.Seconds()),
		cfg.IsProduction(),
	))
	setupRoutes(router, handlers, guard)

	// 8. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 9. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 10. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Auth    *handler.AuthHandler
	Gadget  *handler.GadgetHandler
	Review  *handler.ReviewHandler
	Profile *handler.ProfileHandler
	Admin   *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, guard *middleware.Guard) {
	// Auth
	auth := router.Group("/auth")
	{
		auth.POST("/login", guard.RedirectAuthenticated(), handlers.Auth.Login)
		auth.POST("/register", guard.RedirectAuthenticated(), handlers.Auth.Register)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/session", handlers.Auth.Session)
	}

	// Public catalog
	gadgets := router.Group("/gadgets")
	{
		gadgets.GET("", handlers.Gadget.List)
		gadgets.GET("/featured", handlers.Gadget.Featured)
		gadgets.GET("/search", handlers.Gadget.Search)
		gadgets.GET("/:id", handlers.Gadget.Get)
		gadgets.GET("/:id/reviews", handlers.Gadget.Reviews)
	}

	// Public reviews
	router.GET("/reviews", handlers.Review.List)
	router.GET("/reviews/recent", handlers.Review.Recent)

	// Signed-in, non-admin surface
	me := router.Group("/me")
	me.Use(guard.RequireAuth(), guard.UserOnly())
	{
		me.GET("/profile", handlers.Profile.Get)
		me.PUT("/profile", handlers.Profile.Update)
		me.POST("/profile/photo", handlers.Profile.UploadPhoto)
		me.DELETE("/profile/photo", handlers.Profile.DeletePhoto)

		me.GET("/reviews", handlers.Review.Mine)
		me.POST("/reviews", handlers.Review.Create)
		me.PUT("/reviews/:id", handlers.Review.Update)
		me.DELETE("/reviews/:id", handlers.Review.Delete)
	}

	// Admin dashboard
	admin := router.Group("/admin")
	admin.Use(guard.RequireAuth(), guard.RequireAdmin())
	{
		admin.GET("/dashboard", handlers.Admin.Dashboard)
		admin.POST("/dashboard/refresh", handlers.Admin.Refresh)
		admin.GET("/stats", handlers.Admin.Stats)

		admin.POST("/users", handlers.Admin.CreateUser)
		admin.PUT("/users/:id", handlers.Admin.UpdateUser)
		admin.DELETE("/users/:id", handlers.Admin.DeleteUser)

		admin.POST("/gadgets", handlers.Admin.CreateGadget)
		admin.PUT("/gadgets/:id", handlers.Admin.UpdateGadget)
		admin.DELETE("/gadgets/:id", handlers.Admin.DeleteGadget)

		admin.PUT("/reviews/:id", handlers.Admin.UpdateReview)
		admin.DELETE("/reviews/:id", handlers.Admin.DeleteReview)
		admin.PUT("/reviews/:id/approve", handlers.Admin.ApproveReview)
		admin.PUT("/reviews/:id/reject", handlers.Admin.RejectReview)
	}
}

// openStorage builds the configured session backend and returns it with its
// cleanup function.
func openStorage(cfg *config.Config) (session.Storage, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		store, err := session.NewRedisStorage(&cfg.Redis, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case config.SessionBackendSQLite:
		store, err := session.NewSQLiteStorage(cfg.Session.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(store.DB()); err != nil {
			store.Close()
			return nil, nil, err
		}
		log.Info().Msg("migrations completed successfully")
		return store, func() { store.Close() }, nil

	default:
		return session.NewMemoryStorage(), func() {}, nil
	}
}

// runMigrations runs session database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
