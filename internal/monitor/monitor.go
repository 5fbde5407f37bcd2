package monitor

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"lan-monitor/internal/bandwidth"
	"lan-monitor/internal/config"
	"lan-monitor/internal/models"
	"lan-monitor/internal/report"
)

// Sweeper runs one liveness sweep over a subnet list
type Sweeper interface {
	Sweep(ctx context.Context, spec models.SubnetSpec) *models.SweepReport
}

// Sampler takes one bandwidth sample
type Sampler interface {
	Sample(ctx context.Context) (models.BandwidthSample, error)
}

// Checker reports whether the upstream network is reachable
type Checker interface {
	Check(ctx context.Context) bool
}

// Monitor drives the sweep, bandwidth and maintenance loops and
// publishes their results to a Dashboard
type Monitor struct {
	config    config.Config
	store     models.Store
	sweeper   Sweeper
	sampler   Sampler
	checker   Checker
	dashboard *Dashboard
	now       func() time.Time

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Monitor
func New(cfg config.Config, store models.Store, sweeper Sweeper, sampler Sampler, checker Checker) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		config:    cfg,
		store:     store,
		sweeper:   sweeper,
		sampler:   sampler,
		checker:   checker,
		dashboard: NewDashboard(),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Dashboard returns the cache the workers publish to
func (m *Monitor) Dashboard() *Dashboard {
	return m.dashboard
}

// Start warms the dashboard from storage and launches the workers
func (m *Monitor) Start() error {
	log.Printf("Starting monitor with %d subnets", len(m.config.Subnets))

	m.warm()

	m.wg.Add(3)
	go m.sweepWorker()
	go m.bandwidthWorker()
	go m.maintenanceWorker()

	log.Printf("Monitor started. Sweeping every %v, sampling bandwidth every %v",
		m.config.Sweep.Interval, m.config.Bandwidth.Interval)
	return nil
}

// Stop gracefully stops the monitor
func (m *Monitor) Stop() {
	log.Println("Stopping monitor...")
	m.cancel()
}

// Wait blocks until all goroutines finish
func (m *Monitor) Wait() {
	m.wg.Wait()
	log.Println("Monitor stopped")
}

// warm seeds the dashboard with the last persisted state so a restart
// does not show an empty page until the first sweep finishes
func (m *Monitor) warm() {
	latest, err := m.store.LatestSweep(m.ctx)
	if err != nil {
		log.Printf("Failed to load last sweep: %v", err)
	} else if latest != nil {
		m.dashboard.SetSweep(report.BuildHierarchy(latest))
	}

	now := m.now()
	samples, err := m.store.QuerySamples(m.ctx, now.Add(-m.config.Bandwidth.Window), now)
	if err != nil {
		log.Printf("Failed to load bandwidth history: %v", err)
		return
	}
	if len(samples) > 0 {
		m.dashboard.SetBandwidth(bandwidth.Series(samples), now)
	}
}
