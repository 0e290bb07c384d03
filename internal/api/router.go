package api

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/creativehub/services-hub/internal/api/handler"
	"github.com/creativehub/services-hub/internal/api/middleware"
	"github.com/creativehub/services-hub/internal/core/ports"
	_ "github.com/creativehub/services-hub/internal/docs"
	"github.com/creativehub/services-hub/internal/i18n"
	"github.com/creativehub/services-hub/internal/pkg/config"
)

const bodyLimit = "1M"

// Dependencies are the collaborators NewRouter wires into routes. Auth and
// Posts are nil in stateless mode, which leaves their routes unregistered.
type Dependencies struct {
	Config      *config.Config
	Log         zerolog.Logger
	Submissions ports.SubmissionService
	Auth        ports.AuthService
	Posts       ports.PostService
	I18n        *i18n.Bundle
	// RateStore backs the rate limiter; nil uses a per-process store.
	RateStore echomiddleware.RateLimiterStore
	Checks    []handler.Check
	// Assets is the static site served at /; nil serves nothing.
	Assets fs.FS
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Creative Services Hub API
// @version                     1.0
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Dependencies) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	proxies, _ := cfg.TrustedProxyNets()
	e.IPExtractor = middleware.ClientIP(proxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		Skipper:               pathPrefixSkipper("/swagger"),
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowCredentials: false,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "serviceshub",
		Registerer:                reg,
		Skipper:                   pathPrefixSkipper("/metrics"),
		DoNotUseRequestPathFor404: true,
	}))

	store := d.RateStore
	if store == nil {
		store = middleware.NewMemoryStore(cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	e.Use(middleware.RateLimit(store))

	if d.Assets != nil {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Skipper:    pathPrefixSkipper("/api", "/swagger", "/metrics", "/health"),
			Root:       ".",
			Index:      "index.html",
			Filesystem: http.FS(d.Assets),
		}))
	}

	// --- Health, metrics and docs (not rate limited) ---
	e.GET("/health", handler.Liveness)
	e.GET("/health/ready", handler.NewHealthHandler(d.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	g := e.Group("/api")
	g.GET("/hello", handler.Hello)

	forms := handler.NewSubmissionHandler(d.Submissions)
	g.POST("/contact", forms.Contact)
	g.POST("/request", forms.Request)

	if d.I18n != nil {
		i18nHandler := handler.NewI18nHandler(d.I18n)
		g.GET("/i18n", i18nHandler.Negotiate)
		g.GET("/i18n/:lang", i18nHandler.Get)
	}

	if d.Posts != nil {
		posts := handler.NewPostHandler(d.Posts)
		g.GET("/posts", posts.List)
		g.GET("/posts/:id", posts.Get)
	}

	if d.Auth != nil {
		auth := handler.NewAuthHandler(d.Auth)
		g.POST("/register", auth.Register)
		g.POST("/login", auth.Login)
		g.GET("/me", auth.Me, middleware.Auth(d.Auth))
	}

	return e
}

func pathPrefixSkipper(prefixes ...string) echomiddleware.Skipper {
	return func(c echo.Context) bool {
		p := c.Request().URL.Path
		for _, prefix := range prefixes {
			if strings.HasPrefix(p, prefix) {
				return true
			}
		}
		return false
	}
}
