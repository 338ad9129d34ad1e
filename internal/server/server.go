// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrisnap/internal/app"
)

type Server struct {
	app        *app.App
	engine     *gin.Engine
	httpServer *http.Server
	tools      map[string]toolHandler
	toolInfo   []ToolInfo
	logger     *zap.Logger
}

func New(a *app.App) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		app:    a,
		engine: gin.New(),
		logger: a.Logger.Named("server"),
	}
	s.registerTools()

	s.engine.Use(gin.Recovery(), s.requestLogger(), cors())
	s.routes()

	s.httpServer = &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/scans", s.handleAnalyze)
		api.GET("/scans", s.handleListScans)
		api.GET("/scans/:id", s.handleGetScan)
		api.DELETE("/scans", s.handleClearScans)

		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handleUpdateSettings)

		api.GET("/tips", s.handleTips)
		api.GET("/portions", s.handlePortions)
	}

	s.engine.POST("/mcp", gin.WrapF(s.handleMCP))
	s.engine.GET("/mcp/tools", s.handleListTools)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving HTTP until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting nutrisnap server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping nutrisnap server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
