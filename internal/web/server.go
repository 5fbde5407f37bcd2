package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lan-monitor/internal/config"
	"lan-monitor/internal/models"
	"lan-monitor/internal/monitor"
)

//go:embed static/*
var staticFiles embed.FS

// SampleSource answers ad hoc bandwidth window queries
type SampleSource interface {
	QuerySamples(ctx context.Context, start, end time.Time) ([]models.BandwidthSample, error)
}

// Server handles web requests
type Server struct {
	dashboard *monitor.Dashboard
	source    SampleSource
	config    config.Config
	engine    *gin.Engine
	http      *http.Server
	index     []byte
	now       func() time.Time
}

// New creates a new web server backed by the monitor's dashboard
func New(dashboard *monitor.Dashboard, source SampleSource, cfg config.Config) (*Server, error) {
	index, err := fs.ReadFile(staticFiles, "static/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load index page: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		dashboard: dashboard,
		source:    source,
		config:    cfg,
		engine:    gin.New(),
		index:     index,
		now:       time.Now,
	}
	s.routes()

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/", s.handleIndex)

	api := s.engine.Group("/api")
	api.GET("/sweep", s.handleSweep)
	api.GET("/bandwidth", s.handleBandwidth)
	api.GET("/health", s.handleHealth)

	charts := s.engine.Group("/charts")
	charts.GET("/sweep.png", s.handleSweepChart)
	charts.GET("/bandwidth.png", s.handleBandwidthChart)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("Web server starting on port %d", s.config.Server.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// requestLogger logs each request at debug level
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
			"client":   c.ClientIP(),
		}).Debug("HTTP request")
	}
}
