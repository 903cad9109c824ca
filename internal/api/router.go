package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/komunidad/bulletin-board/docs"
	"github.com/komunidad/bulletin-board/internal/api/handler"
	"github.com/komunidad/bulletin-board/internal/api/middleware"
	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	Auth          ports.AuthService
	Profiles      ports.ProfileRepository
	Areas         handler.AreaLister
	Announcements handler.AnnouncementService
	Health        map[string]handler.Pinger // probed by /health/ready
	JWTSecret     string
	Log           zerolog.Logger
	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "komunidad",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	areaHandler := handler.NewAreaHandler(d.Areas)
	profileHandler := handler.NewProfileHandler(d.Profiles, d.Areas)
	announcementHandler := handler.NewAnnouncementHandler(d.Announcements)
	healthHandler := handler.NewHealthHandler(d.Health)

	auth := middleware.Auth(d.JWTSecret)
	official := middleware.RequireRole(d.Profiles, domain.RoleOfficial)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/login", authHandler.Login)

	// --- Reference data ---
	e.GET("/v1/areas", areaHandler.List)

	// --- Session routes ---
	v1 := e.Group("/v1", auth)
	v1.GET("/profiles/:uid", profileHandler.Get)
	v1.PUT("/profiles/:uid", profileHandler.Create)

	v1.GET("/announcements", announcementHandler.List)
	v1.GET("/announcements/search", announcementHandler.Search)
	v1.GET("/announcements/:id", announcementHandler.Get)

	// --- Official routes ---
	v1.POST("/announcements", announcementHandler.Create, official)
	v1.PATCH("/announcements/:id", announcementHandler.Update, official)
	v1.DELETE("/announcements/:id", announcementHandler.Delete, official)

	// --- Ops (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
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
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
