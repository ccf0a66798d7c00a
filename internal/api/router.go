package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/martclinic/clinic-auth/internal/api/handler"
	"github.com/martclinic/clinic-auth/internal/api/middleware"
	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
	"github.com/martclinic/clinic-auth/internal/core/service"
)

// Deps bundles everything the router needs. Mongo and Redis are nil in
// memory mode; the readiness probe skips whatever is absent.
type Deps struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Validator ports.SessionValidator
	Codec     ports.TokenCodec
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// Per-router registry so rebuilding the router (tests) never collides
	// with already-registered request metrics; /metrics still gathers the
	// default registry, where the custom auth metrics live.
	promReg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic_auth",
		Registerer: promReg,
	}))

	authHandler := handler.NewAuthHandler(d.Auth, d.Codec)
	userHandler := handler.NewUserHandler(d.Users)
	activityHandler := handler.NewActivityHandler(d.Users)
	sessionRequired := middleware.Session(d.Validator)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, sessionRequired)
	e.GET("/auth/me", authHandler.Me, sessionRequired)
	e.PUT("/auth/profile", authHandler.UpdateProfile, sessionRequired)
	e.PUT("/auth/password", authHandler.ChangePassword, sessionRequired)

	// --- Admin user management ---
	users := e.Group("/users", sessionRequired, middleware.RequireCapability(domain.CanManageUsers))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/active", userHandler.SetActive)
	users.DELETE("/:id", userHandler.Delete)

	// --- Activity log ---
	e.GET("/activity", activityHandler.Recent, sessionRequired,
		middleware.RequireCapability(domain.CanViewActivity))

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, promReg},
	}))
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
