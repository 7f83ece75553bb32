package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/assignhub/assignment-portal/docs"
	"github.com/assignhub/assignment-portal/internal/api/handler"
	"github.com/assignhub/assignment-portal/internal/api/middleware"
	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
	"github.com/assignhub/assignment-portal/internal/core/service"
	"github.com/assignhub/assignment-portal/internal/infrastructure/config"
	mongodb "github.com/assignhub/assignment-portal/internal/infrastructure/db/mongo"
	"github.com/assignhub/assignment-portal/internal/infrastructure/identity"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The same handlers serve the two parallel surfaces under /users and /admins.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, sessions ports.SessionStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Env == "development")
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	if cfg.ForceHTTPS {
		e.Pre(middleware.Secure(cfg.SecurePort))
	}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	principalRepo := mongodb.NewPrincipalRepository(db)
	assignmentRepo := mongodb.NewAssignmentRepository(db)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	facebook := identity.NewFacebookProvider(identity.FacebookConfig{GraphURL: cfg.Facebook.GraphURL})
	authService := service.NewAuthService(principalRepo, facebook, tokens, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, principalRepo, log)
	sessionService := service.NewSessionService(sessions, log)

	userAuth := handler.NewAuthHandler(domain.KindUser, authService, sessionService, cfg.Session.CookieName)
	adminAuth := handler.NewAuthHandler(domain.KindAdmin, authService, sessionService, cfg.Session.CookieName)
	assignments := handler.NewAssignmentHandler(assignmentService)

	verifyUser := middleware.Auth(authService, domain.KindUser)
	verifyAdmin := middleware.Auth(authService, domain.KindAdmin)

	// --- User surface ---
	users := e.Group("/users")
	users.POST("/register", userAuth.Register)
	users.POST("/login", userAuth.Login)
	users.GET("/facebook/token", userAuth.FacebookToken)
	users.GET("/logout", userAuth.Logout)
	users.GET("/checkJWTtoken", userAuth.CheckToken)
	users.POST("/upload", assignments.Upload, verifyUser)
	users.GET("/admins", assignments.ListAdmins, verifyUser)

	// --- Admin surface ---
	admins := e.Group("/admins")
	admins.GET("", assignments.ListAdmins)
	admins.POST("/register", adminAuth.Register)
	admins.POST("/login", adminAuth.Login)
	admins.GET("/facebook/token", adminAuth.FacebookToken)
	admins.GET("/logout", adminAuth.Logout)
	admins.GET("/checkJWTtoken", adminAuth.CheckToken)
	admins.GET("/assignments", assignments.ListOwn, verifyAdmin)
	admins.POST("/assignments/:id/accept", assignments.Accept, verifyAdmin)
	admins.POST("/assignments/:id/reject", assignments.Reject, verifyAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
