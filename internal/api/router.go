package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/assetintel/asset-intelligence/docs"
	"github.com/assetintel/asset-intelligence/internal/api/handler"
	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/api/view"
	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/infrastructure/http/handlers"
)

// Dependencies are the services and settings the router wires together.
type Dependencies struct {
	Auth     ports.AuthService
	Copilot  ports.CopilotService
	Tokens   ports.TokenIssuer
	Activity ports.ActivityPublisher
	Limiter  *middleware.RateLimiter
	Cookie   handler.CookieConfig

	// Backend and Health feed the readiness probe.
	Backend string
	Health  []handlers.Dependency

	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil
	// selects the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

const defaultVisitorCookie = "ai_visitor"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "asset_intel",
		Registerer: deps.Registerer,
		Skipper:    func(c echo.Context) bool { return c.Path() == "/metrics" },
	}))
	e.Use(middleware.Session(middleware.SessionConfig{
		Tokens:     deps.Tokens,
		Resolver:   deps.Auth,
		CookieName: deps.Cookie.Name,
		Activity:   deps.Activity,
	}))
	e.Use(middleware.RequestLog(deps.Log))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Backend, deps.Health...)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	limit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if deps.Limiter != nil {
		limit = deps.Limiter.Middleware()
	}

	// --- JSON API ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Tokens, deps.Cookie)
	copilotHandler := handler.NewCopilotHandler(deps.Copilot)
	adminHandler := handler.NewAdminHandler(deps.Auth)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login, limit)
	auth.POST("/signup", authHandler.Signup, limit)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, middleware.RequireSession())

	copilot := v1.Group("/copilot", middleware.RequireSession())
	copilot.GET("/quick-actions", copilotHandler.QuickActions)
	copilot.GET("/conversation", copilotHandler.Conversation)
	copilot.GET("/conversation/export", copilotHandler.Export)
	copilot.POST("/messages", copilotHandler.SendMessage)

	admin := v1.Group("/admin", middleware.RequireSession(), middleware.RBAC(deps.Auth, domain.RoleAdmin, domain.RoleManager))
	admin.GET("/identities", adminHandler.Identities)

	// --- Pages ---
	pages := handler.NewPageHandler(deps.Auth, deps.Copilot, deps.Tokens, deps.Cookie, deps.Activity)

	visitorCookie := deps.Cookie.Visitor
	if visitorCookie == "" {
		visitorCookie = defaultVisitorCookie
	}
	visitor := middleware.Visitor(middleware.VisitorConfig{
		CookieName: visitorCookie,
		Secure:     deps.Cookie.Secure,
		Activity:   deps.Activity,
	})

	e.GET("/", pages.Landing, visitor)
	e.GET(middleware.LoginPath, pages.AuthPage, visitor)
	e.POST(middleware.LoginPath+"/login", pages.LoginForm, limit)
	e.POST(middleware.LoginPath+"/signup", pages.SignupForm, limit)
	e.POST(middleware.LoginPath+"/logout", pages.LogoutForm)
	e.GET("/unauthorized", pages.Unauthorized, visitor)

	dashboard := e.Group(view.BasePath, middleware.Guard())
	dashboard.GET("", pages.DashboardIndex)
	dashboard.GET("/", pages.DashboardIndex)
	dashboard.GET("/:view", pages.View)
	dashboard.POST("/"+view.SlugCopilot, pages.CopilotForm)

	return e, nil
}
