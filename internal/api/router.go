package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskboard/task-api/docs"
	"github.com/taskboard/task-api/internal/api/handler"
	"github.com/taskboard/task-api/internal/api/middleware"
	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

const bodyLimit = "10M"

// Deps groups everything the router wires into handlers and middleware.
type Deps struct {
	Tasks         ports.TaskService
	Users         ports.UserService
	Authenticator ports.Authenticator
	// RateLimiter is optional; nil disables throttling.
	RateLimiter  ports.RateLimiter
	HealthChecks map[string]handler.HealthCheck

	Logger         zerolog.Logger
	Version        string
	AllowedOrigins []string
	ExposeErrors   bool

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger, d.ExposeErrors)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowedOrigins(d.AllowedOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskmanager",
		Registerer: registerer,
	}))

	// --- Service endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/", handler.Banner(d.Version))
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	apiGroup := e.Group("/api")
	if d.RateLimiter != nil {
		apiGroup.Use(middleware.RateLimit(d.RateLimiter, d.Logger))
	}
	apiGroup.Use(middleware.Auth(d.Authenticator))

	tasks := handler.NewTaskHandler(d.Tasks)
	apiGroup.GET("/tasks", tasks.List)
	apiGroup.POST("/tasks", tasks.Create)
	apiGroup.GET("/tasks/:id", tasks.Get)
	apiGroup.PUT("/tasks/:id", tasks.Update)
	apiGroup.DELETE("/tasks/:id", tasks.Delete)
	apiGroup.GET("/tasks/:id/activity", tasks.Activity)

	users := handler.NewUserHandler(d.Users)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	apiGroup.GET("/users", users.List, adminOnly)
	apiGroup.GET("/users/profile", users.Profile)
	apiGroup.GET("/users/:id", users.Get, adminOnly)

	return e
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
