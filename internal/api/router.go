package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bibliotech/circulation-api/internal/api/handler"
	"github.com/bibliotech/circulation-api/internal/api/middleware"
	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/service"
	"github.com/bibliotech/circulation-api/internal/infrastructure/config"
	"github.com/bibliotech/circulation-api/internal/infrastructure/db/postgres"
	redisdb "github.com/bibliotech/circulation-api/internal/infrastructure/db/redis"
	"github.com/bibliotech/circulation-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("circulation"))

	// --- Dependencies ---
	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
	flashes := redisdb.NewFlashStore(rdb)

	userRepo := postgres.NewUserRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	authorRepo := postgres.NewAuthorRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)

	authService := service.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.SessionTTL, log)
	bookService := service.NewBookService(bookRepo, log)
	authorService := service.NewAuthorService(authorRepo, log)
	loanService := service.NewLoanService(loanRepo, log)

	authHandler := handler.NewAuthHandler(authService, flashes)
	bookHandler := handler.NewBookHandler(bookService, flashes)
	authorHandler := handler.NewAuthorHandler(authorService, flashes)
	loanHandler := handler.NewLoanHandler(loanService, flashes)

	authRequired := middleware.Auth(cfg.JWTSecret, sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired)

	v1 := e.Group("/v1")

	// --- Catalog reads are public; browsing needs no account ---
	v1.GET("/books", bookHandler.List)
	v1.GET("/books/:id", bookHandler.Get)
	v1.GET("/authors", authorHandler.List)
	v1.GET("/authors/:id", authorHandler.Get)

	// --- Catalog writes and circulation are admin operations ---
	v1.GET("/books/available", bookHandler.ListAvailable, authRequired, adminOnly)
	v1.POST("/books", bookHandler.Create, authRequired, adminOnly)
	v1.PUT("/books/:id", bookHandler.Update, authRequired, adminOnly)
	v1.DELETE("/books/:id", bookHandler.Delete, authRequired, adminOnly)
	v1.POST("/authors", authorHandler.Create, authRequired, adminOnly)
	v1.PUT("/authors/:id", authorHandler.Update, authRequired, adminOnly)
	v1.DELETE("/authors/:id", authorHandler.Delete, authRequired, adminOnly)
	v1.POST("/loans", loanHandler.Issue, authRequired, adminOnly)
	v1.POST("/loans/:id/return", loanHandler.Return, authRequired, adminOnly)
	v1.GET("/members", authHandler.ListMembers, authRequired, adminOnly)

	// --- Any authenticated caller; member scoping happens in the service ---
	v1.GET("/loans", loanHandler.List, authRequired)
	v1.GET("/loans/:id", loanHandler.Get, authRequired)
	v1.GET("/session/flash", authHandler.Flash, authRequired)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
