package api

import (
	"net/http"

	"github.com/Domenick1991/tripcomposer/internal/logger"
	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const basePath = "/api/composite"

type RouterConfig struct {
	Service        composite.CompositeUseCase
	Locker         IdempotencyLocker
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(RequestID(), RequestLogger(log), CORS(cfg.AllowedOrigins))

	router.GET("/health", health)

	group := router.Group(basePath)
	NewItineraryHandler(cfg.Service, cfg.Locker, log).Register(group)
	NewDestinationHandler(cfg.Service).Register(group)
	NewQuoteHandler(cfg.Service).Register(group)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": c.Request.URL.Path})
	})

	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
