package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/madinti/madinti-api/docs"
	"github.com/madinti/madinti-api/internal/api/handler"
	"github.com/madinti/madinti-api/internal/api/middleware"
	"github.com/madinti/madinti-api/internal/api/response"
	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

// Deps groups everything the router needs. Limiter may be nil, in which case
// requests are not rate limited.
type Deps struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Tokens     ports.TokenVerifier
	Limiter    ports.RateLimiter
	Checks     map[string]handler.Checker
	Log        zerolog.Logger
	CORSOrigin string
	Version    string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(corsConfig(d.CORSOrigin)))
	e.Use(echomiddleware.BodyLimit("1M"))

	// --- Observability (no auth required) ---
	health := handler.NewHealthHandler(d.Version, d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authMW := middleware.Auth(d.Tokens)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Users)
	auth := e.Group("/auth")
	if d.Limiter != nil {
		auth.Use(middleware.RateLimit(d.Limiter, d.Log))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/resend-otp", authHandler.ResendOTP)
	auth.POST("/admin-login", authHandler.AdminLogin)
	auth.GET("/me", authHandler.Me, authMW)
	auth.GET("/session", authHandler.Session, middleware.OptionalAuth(d.Tokens))

	// --- Staff administration ---
	userHandler := handler.NewUserHandler(d.Users)
	admin := e.Group("/admin", authMW, middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin))
	admin.GET("/users/:id", userHandler.GetUser)
	admin.PATCH("/users/:id/status", userHandler.SetStatus)

	return e
}

func corsConfig(origin string) echomiddleware.CORSConfig {
	if origin == "" {
		origin = "*"
	}
	return echomiddleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
		// browsers reject credentialed requests against a wildcard origin
		AllowCredentials: origin != "*",
	}
}
