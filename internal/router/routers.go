package router

import (
	"time"

	"github.com/Depado/ginprom"
	"github.com/Payphone-Digital/addressbook/config"
	"github.com/Payphone-Digital/addressbook/internal/handler"
	"github.com/Payphone-Digital/addressbook/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Router struct {
	authHandler    *handler.AuthHandler
	contactHandler *handler.ContactHandler
	healthHandler  *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	contact *handler.ContactHandler,
	health *handler.HealthHandler,

	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		contactHandler: contact,
		healthHandler:  health,

		jwtMw:  jwtMw,
		Config: config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.Config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestContext(r.Config.App.Timeout))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS(r.Config.CORS))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	p := ginprom.New(
		ginprom.Engine(router),
		ginprom.Registry(registry),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
	)
	router.Use(p.Instrument())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		addressBook := api.Group("/addressbook")
		addressBook.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
		{
			r.authRoutes(addressBook)
			r.contactRoutes(addressBook)
		}
	}

	return router
}
