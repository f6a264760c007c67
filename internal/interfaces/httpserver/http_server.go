package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"matchpulse/analysis-api/internal/config"
	middleware "matchpulse/analysis-api/internal/interfaces/httpserver/middlewares"
	"matchpulse/analysis-api/internal/interfaces/httpserver/routes/api"
)

// HTTPServer wires the gin engine, middlewares and routes.
type HTTPServer struct {
	engine   *gin.Engine
	apiRoute *api.APIRoute
	config   *config.Config
	db       *gorm.DB
}

func NewHTTPServer(apiRoute *api.APIRoute, cfg *config.Config, logger zerolog.Logger, db *gorm.DB) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := &HTTPServer{
		engine:   gin.New(),
		apiRoute: apiRoute,
		config:   cfg,
		db:       db,
	}

	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/readyz", server.readyz)

	server.apiRoute.RegisterRouter(server.engine)
	return server
}

// Engine exposes the configured router for the HTTP listener.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// readyz answers ready only when the database responds to a ping.
func (s *HTTPServer) readyz(c *gin.Context) {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
