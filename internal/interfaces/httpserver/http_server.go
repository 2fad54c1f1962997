package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fitcoach/services/coach-api/internal/config"
	"fitcoach/services/coach-api/internal/infrastructure/auth"
	middleware "fitcoach/services/coach-api/internal/interfaces/httpserver/middlewares"
	v1 "fitcoach/services/coach-api/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine    *gin.Engine
	validator *auth.JWKSValidator
	v1Route   *v1.V1Route
	config    *config.Config
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	validator *auth.JWKSValidator,
	logger zerolog.Logger,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		engine:    gin.New(),
		validator: validator,
		v1Route:   v1Route,
		config:    cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/readyz", func(c *gin.Context) {
		if !server.validator.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "jwks not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	protected := server.engine.Group("/")
	protected.Use(middleware.AuthMiddleware(validator, logger))
	server.v1Route.RegisterRouter(protected)

	return &server
}

func (httpServer *HTTPServer) Run() error {
	return httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort))
}
