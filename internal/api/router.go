package api

import (
	"fmt"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/catregistry/cat-api/docs"
	"github.com/catregistry/cat-api/internal/api/handler"
	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

// Dependencies is everything the router wires into handlers and middleware.
type Dependencies struct {
	Cats   ports.CatService
	Users  ports.UserService
	Auth   ports.AuthService
	Images ports.ImageStore
	Health *handler.HealthHandler

	JWTSecret      string
	UploadMaxBytes int64
	// UploadDir is served under /uploads when set (local image store only).
	UploadDir string

	// Metrics receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry, where the custom metrics also live.
	Metrics *prometheus.Registry
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "catapi",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))
	if deps.UploadMaxBytes > 0 {
		// multipart overhead on top of the file itself
		e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", deps.UploadMaxBytes/1024+1024)))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	catHandler := handler.NewCatHandler(deps.Cats)
	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	users := v1.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("", userHandler.UpdateCurrent, auth)
	users.DELETE("", userHandler.DeleteCurrent, auth)
	users.GET("/token", userHandler.CheckToken, auth)
	users.GET("/:id", userHandler.Get)

	// --- Cat routes ---
	upload := middleware.Upload(middleware.UploadConfig{
		Store:    deps.Images,
		Field:    "cat",
		MaxBytes: deps.UploadMaxBytes,
	})

	cats := v1.Group("/cats")
	cats.GET("", catHandler.List)
	cats.POST("", catHandler.Create, auth, middleware.Point(), upload)
	cats.GET("/area", catHandler.ListInArea, middleware.BoundingBox())
	cats.GET("/user", catHandler.ListByUser, auth)
	cats.GET("/:id", catHandler.Get)
	cats.PUT("/:id", catHandler.Update, auth)
	cats.DELETE("/:id", catHandler.Delete, auth)
	cats.PUT("/admin/:id", catHandler.UpdateAsAdmin, auth, adminOnly)
	cats.DELETE("/admin/:id", catHandler.DeleteAsAdmin, auth, adminOnly)

	if deps.UploadDir != "" {
		e.Static("/uploads", deps.UploadDir)
	}

	// --- Health checks (no auth required) ---
	if deps.Health != nil {
		e.GET("/health", deps.Health.Liveness)         // liveness  – is the process alive?
		e.GET("/health/ready", deps.Health.Readiness) // readiness – are dependencies up?
	}

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			} else if v.Status >= 400 {
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
