package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hcm-suite/hcm-system/internal/api/handler"
	"github.com/hcm-suite/hcm-system/internal/api/middleware"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
	"github.com/hcm-suite/hcm-system/internal/core/service"
	mongodb "github.com/hcm-suite/hcm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/hcm-suite/hcm-system/internal/infrastructure/db/redis"
	"github.com/hcm-suite/hcm-system/internal/token"
)

// NewPeopleRouter builds the Echo instance for the people service with
// all routes registered. authClient is the remote view of the auth
// service used for companion credential calls.
func NewPeopleRouter(db *mongo.Database, authClient ports.CredentialClient, verifier *token.Verifier, log zerolog.Logger, opts ...service.Option) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hcm_people"))

	// --- Dependencies ---
	personRepo := mongodb.NewPersonRepository(db)
	peopleService := service.NewPeopleService(personRepo, authClient, log, opts...)
	peopleHandler := handler.NewPeopleHandler(peopleService)

	// --- People routes ---
	g := e.Group("/api/people", middleware.Auth(verifier))
	g.GET("", peopleHandler.List, middleware.RequirePolicy(middleware.PolicyAuthenticatedUser))
	g.GET("/:id", peopleHandler.Get, middleware.RequirePolicy(middleware.PolicyAuthenticatedUser))
	g.POST("", peopleHandler.Create, middleware.RequirePolicy(middleware.PolicyManagerOrAbove))
	g.PUT("/:id", peopleHandler.Update, middleware.RequirePolicy(middleware.PolicyManagerOrAbove))
	g.DELETE("/:id", peopleHandler.Delete, middleware.RequirePolicy(middleware.PolicyHRAdmin))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, nil)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

// NewAuthRouter builds the Echo instance for the auth service. rdb backs
// the login throttle and may be nil to disable it.
func NewAuthRouter(db *mongo.Database, rdb *redis.Client, issuer *token.Issuer, verifier *token.Verifier, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hcm_auth"))

	// --- Dependencies ---
	credRepo := mongodb.NewCredentialRepository(db)
	credService := service.NewCredentialService(credRepo, log)

	var throttle handler.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginLimiter(rdb)
	}
	authHandler := handler.NewAuthHandler(credService, issuer, throttle)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)

	// Credential lifecycle: called by the people service's companion
	// calls carrying the original caller's forwarded token, so the
	// policies mirror the people API's mutation policies.
	g := e.Group("/api/auth", middleware.Auth(verifier))
	g.POST("/register", authHandler.Register, middleware.RequirePolicy(middleware.PolicyManagerOrAbove))
	g.PUT("/users", authHandler.Update, middleware.RequirePolicy(middleware.PolicyManagerOrAbove))
	g.DELETE("/users", authHandler.Delete, middleware.RequirePolicy(middleware.PolicyHRAdmin))
	g.POST("/change-password", authHandler.ChangePassword, middleware.RequirePolicy(middleware.PolicyAuthenticatedUser))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
