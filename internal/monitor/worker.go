package monitor

import (
	"time"

	log "github.com/sirupsen/logrus"

	"lan-monitor/internal/bandwidth"
	"lan-monitor/internal/report"
)

// runTicker calls fn immediately and then on every tick until the monitor stops
func (m *Monitor) runTicker(interval time.Duration, fn func()) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

func (m *Monitor) sweepWorker() {
	m.runTicker(m.config.Sweep.Interval, m.refreshSweep)
}

func (m *Monitor) bandwidthWorker() {
	m.runTicker(m.config.Bandwidth.Interval, m.refreshBandwidth)
}

// refreshSweep runs one sweep behind the connectivity gate
func (m *Monitor) refreshSweep() {
	if !m.checker.Check(m.ctx) {
		if m.ctx.Err() != nil {
			return
		}
		log.Warn("Connectivity check failed, keeping last sweep result")
		m.dashboard.SetAlert(m.now())
		return
	}

	result := m.sweeper.Sweep(m.ctx, m.config.Subnets)
	if m.ctx.Err() != nil {
		return
	}

	m.dashboard.SetSweep(report.BuildHierarchy(result))

	if err := m.store.SaveSweep(m.ctx, result); err != nil {
		log.Printf("Failed to save sweep: %v", err)
	}
}

// refreshBandwidth records one sample and republishes the trailing window.
// Storage failures skip the tick and leave the previous series in place.
func (m *Monitor) refreshBandwidth() {
	sample, err := m.sampler.Sample(m.ctx)
	if err != nil {
		if m.ctx.Err() == nil {
			log.Printf("Failed to sample bandwidth: %v", err)
		}
		return
	}

	if err := m.store.AppendSample(m.ctx, sample); err != nil {
		log.Printf("Failed to save bandwidth sample: %v", err)
		return
	}

	now := m.now()
	samples, err := m.store.QuerySamples(m.ctx, now.Add(-m.config.Bandwidth.Window), now)
	if err != nil {
		log.Printf("Failed to query bandwidth samples: %v", err)
		return
	}

	m.dashboard.SetBandwidth(bandwidth.Series(samples), now)

	log.WithFields(log.Fields{
		"sent":    sample.BytesSent,
		"recv":    sample.BytesRecv,
		"samples": len(samples),
	}).Debug("Bandwidth sample recorded")
}
