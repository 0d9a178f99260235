package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sessionless/auth-api/internal/api/handler"
	"github.com/sessionless/auth-api/internal/api/middleware"
	"github.com/sessionless/auth-api/internal/core/domain"
	"github.com/sessionless/auth-api/internal/core/service"
	"github.com/sessionless/auth-api/internal/core/token"
	"github.com/sessionless/auth-api/internal/infrastructure/config"
	mongostore "github.com/sessionless/auth-api/internal/infrastructure/db/mongo"
	redisstore "github.com/sessionless/auth-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Every route's access requirement is declared here, next to the route
// itself: a route carries either middleware.RequireAuthority with the exact
// authorities that may reach it, or nothing, in which case it is open.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := mongostore.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, codec)
	limiter := redisstore.NewAttemptLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)

	// Authentication runs on every request; it attaches a principal when the
	// token verifies and otherwise lets the request continue anonymous.
	e.Use(middleware.Authenticate(codec, log))

	// --- Issuance routes (open, rate limited) ---
	auth := e.Group("/auth", middleware.RateLimit(limiter, log))
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)

	// --- Protected routes ---
	e.GET("/me", userHandler.Me,
		middleware.RequireAuthority(domain.AuthorityAdmin, domain.AuthorityUser))
	e.GET("/admin/users", userHandler.Lookup,
		middleware.RequireAuthority(domain.AuthorityAdmin))

	// --- Open routes ---
	e.GET("/open", userHandler.Open)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
