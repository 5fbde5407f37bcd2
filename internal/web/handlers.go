package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lan-monitor/internal/bandwidth"
	"lan-monitor/internal/monitor"
	"lan-monitor/internal/report"
)

// maxWindow caps ad hoc bandwidth queries
const maxWindow = 31 * 24 * time.Hour

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.index)
}

// handleSweep handles /api/sweep requests
func (s *Server) handleSweep(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Sweep())
}

// handleBandwidth handles /api/bandwidth requests. Without a window
// parameter it returns the series published by the bandwidth worker.
func (s *Server) handleBandwidth(c *gin.Context) {
	view, err := s.bandwidthView(c)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleHealth handles /api/health requests
func (s *Server) handleHealth(c *gin.Context) {
	sweep := s.dashboard.Sweep()
	bw := s.dashboard.Bandwidth()

	c.JSON(http.StatusOK, gin.H{
		"status":                "ok",
		"timestamp":             s.now().Format(time.RFC3339),
		"sweep_ready":           sweep.Ready,
		"bandwidth_ready":       bw.Ready,
		"alert":                 sweep.Alert,
		"sweep_interval_ms":     s.config.Sweep.Interval.Milliseconds(),
		"bandwidth_interval_ms": s.config.Bandwidth.Interval.Milliseconds(),
	})
}

func (s *Server) handleSweepChart(c *gin.Context) {
	hierarchy := s.dashboard.Sweep().Hierarchy
	s.writeChart(c, func(buf *bytes.Buffer) error {
		return report.RenderSweepChart(hierarchy, buf)
	})
}

func (s *Server) handleBandwidthChart(c *gin.Context) {
	view, err := s.bandwidthView(c)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	s.writeChart(c, func(buf *bytes.Buffer) error {
		return report.RenderBandwidthChart(view.Series, buf)
	})
}

// writeChart answers 204 when there is nothing to draw yet
func (s *Server) writeChart(c *gin.Context, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, report.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		log.Printf("Failed to render chart %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

var errBadWindow = errors.New("invalid window")

func (s *Server) bandwidthView(c *gin.Context) (monitor.BandwidthView, error) {
	raw := c.Query("window")
	if raw == "" {
		return s.dashboard.Bandwidth(), nil
	}

	window, err := time.ParseDuration(raw)
	if err != nil || window <= 0 || window > maxWindow {
		return monitor.BandwidthView{}, fmt.Errorf("%w: %q", errBadWindow, raw)
	}

	now := s.now()
	samples, err := s.source.QuerySamples(c.Request.Context(), now.Add(-window), now)
	if err != nil {
		log.Printf("Failed to query bandwidth samples: %v", err)
		return monitor.BandwidthView{}, err
	}

	return monitor.BandwidthView{
		Series:    bandwidth.Series(samples),
		Ready:     len(samples) > 0,
		UpdatedAt: now,
	}, nil
}

func statusFor(err error) int {
	if errors.Is(err, errBadWindow) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
