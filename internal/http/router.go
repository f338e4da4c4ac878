package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ldurand/contacthub/internal/auth"
	"github.com/ldurand/contacthub/internal/config"
	"github.com/ldurand/contacthub/internal/http/handlers"
	"github.com/ldurand/contacthub/internal/http/middlewares"
	"github.com/ldurand/contacthub/internal/observability"
)

type UserStore interface {
	handlers.UserReader
	handlers.UserWriter
}

// Deps carries everything the router needs, injected explicitly so tests can
// substitute in-memory stores and a throwaway signing secret.
type Deps struct {
	Log      *slog.Logger
	Cfg      config.Config
	JWT      *auth.Manager
	Users    UserStore
	Contacts handlers.ContactsStore
	Ping     func() error
	Prom     *observability.Prom
	Registry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("contacthub"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// health

	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up handlers

	authHandler := handlers.NewAuthHandler(d.Users, d.Users, d.JWT, d.Prom)
	contactsHandler := handlers.NewContactsHandler(d.Contacts)

	authMw := middlewares.NewAuthMiddleware(d.JWT, d.Log)

	// registration and login establish identity, so they sit outside the gate

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	contactGroup := r.Group("/contact")
	contactGroup.Use(authMw.RequireAuth())
	contactGroup.GET("/", contactsHandler.List)
	contactGroup.POST("/", contactsHandler.Create)
	contactGroup.PATCH("/:id", contactsHandler.Update)
	contactGroup.DELETE("/:id", contactsHandler.Delete)

	return r
}
