// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/handler"
	"github.com/OscarGAV/eventrely-backend/internal/middleware"
)

// Deps is everything the route table needs.
type Deps struct {
	Log         *zap.Logger
	DB          handler.Pinger
	Auth        *handler.AuthHandler
	Events      *handler.EventHandler
	Tokens      middleware.TokenVerifier
	Users       middleware.UserLoader
	RateLimit   *middleware.TokenBucket
	Cache       echo.MiddlewareFunc
	CORSOrigins []string
}

// New builds the echo instance with the shared middleware chain and every route.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Cache == nil {
		d.Cache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Recover(d.Log))
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, d.DB)
	jwt := middleware.JWTAuth(d.Tokens, d.Users)
	RegisterAuth(e, d.Auth, jwt, d.RateLimit.Middleware(), d.Cache)
	RegisterEvents(e, d.Events, jwt)
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/ping", handler.Ping)
	if db != nil {
		e.GET("/keepalive", handler.Keepalive(db))
	}
}

// RegisterAuth registers /api/v1/auth. Credential endpoints are rate limited;
// the public profile read is cached.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwt, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/api/v1/auth")

	g.POST("/signup", a.SignUp, limit)
	g.POST("/signin", a.SignIn, limit)
	g.POST("/refresh", a.Refresh, limit)
	g.GET("/users/:id", a.GetUser, cache)

	g.POST("/change-password", a.ChangePassword, jwt)
	g.PUT("/profile", a.UpdateProfile, jwt)
	g.DELETE("/deactivate", a.Deactivate, jwt)
	g.GET("/me", a.Me, jwt)
	g.GET("/users", a.ListUsers, jwt)
	g.POST("/users/:id/activate", a.ActivateUser, jwt)
}

// RegisterEvents registers /api/v1/events; every route requires a token.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, jwt echo.MiddlewareFunc) {
	g := e.Group("/api/v1/events", jwt)

	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/upcoming", h.Upcoming)
	g.GET("/date/:date", h.ByDate)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/complete", h.Complete)
	g.POST("/:id/cancel", h.Cancel)
}
