package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"lan-monitor/internal/bandwidth"
	"lan-monitor/internal/models"
)

// Source is the read side of the store used by reports
type Source interface {
	QuerySamples(ctx context.Context, start, end time.Time) ([]models.BandwidthSample, error)
	LatestSweep(ctx context.Context) (*models.SweepReport, error)
}

// Generator creates static chart images and a text summary from stored history
type Generator struct {
	source Source
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(source Source) *Generator {
	return &Generator{source: source, now: time.Now}
}

// GenerateReport writes charts and a summary for the last window of history
// into a fresh timestamped directory under outputDir and returns its path.
func (g *Generator) GenerateReport(ctx context.Context, outputDir string, window time.Duration) (string, error) {
	now := g.now()
	reportDir := filepath.Join(outputDir, fmt.Sprintf("lan_report_%s", now.Format("2006-01-02_15-04-05")))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	latest, err := g.source.LatestSweep(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load latest sweep: %w", err)
	}
	samples, err := g.source.QuerySamples(ctx, now.Add(-window), now)
	if err != nil {
		return "", fmt.Errorf("failed to load bandwidth samples: %w", err)
	}

	hierarchy := BuildHierarchy(latest)
	series := bandwidth.Series(samples)

	if err := writeChart(filepath.Join(reportDir, "sweep.png"), func(buf *bytes.Buffer) error {
		return RenderSweepChart(hierarchy, buf)
	}); err != nil {
		log.Printf("Failed to generate sweep chart: %v", err)
	}

	if err := writeChart(filepath.Join(reportDir, "bandwidth.png"), func(buf *bytes.Buffer) error {
		return RenderBandwidthChart(series, buf)
	}); err != nil {
		log.Printf("Failed to generate bandwidth chart: %v", err)
	}

	summary, err := os.Create(filepath.Join(reportDir, "summary.txt"))
	if err != nil {
		return "", fmt.Errorf("failed to create summary: %w", err)
	}
	defer summary.Close()

	if err := WriteSummary(summary, now, window, latest, samples); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	log.Printf("Report generated in: %s", reportDir)
	return reportDir, nil
}

// writeChart renders into memory first so an empty chart leaves no file behind
func writeChart(path string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, ErrNoData) {
			log.Debugf("Skipping %s: %v", filepath.Base(path), err)
			return nil
		}
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
