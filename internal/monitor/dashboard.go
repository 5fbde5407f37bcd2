package monitor

import (
	"sync"
	"time"

	"lan-monitor/internal/models"
	"lan-monitor/internal/report"
)

// AlertMessage is shown while the connectivity gate is closed
const AlertMessage = "Error: Failed to retrieve active device data and bandwidth data. Please check the subnet scan configuration or network monitoring service."

// SweepView is what the dashboard renders for the liveness chart
type SweepView struct {
	Hierarchy report.Hierarchy `json:"hierarchy"`
	Ready     bool             `json:"ready"`
	Alert     bool             `json:"alert"`
	Message   string           `json:"message,omitempty"`
	AlertedAt time.Time        `json:"alerted_at,omitzero"`
}

// BandwidthView is what the dashboard renders for the throughput chart
type BandwidthView struct {
	Series    models.BandwidthSeries `json:"series"`
	Ready     bool                   `json:"ready"`
	UpdatedAt time.Time              `json:"updated_at,omitzero"`
}

// Dashboard holds the last good sweep and bandwidth series.
// Values are only replaced on success, so a failed refresh keeps showing the previous state.
type Dashboard struct {
	mu        sync.RWMutex
	sweep     SweepView
	bandwidth BandwidthView
}

// NewDashboard returns an empty dashboard
func NewDashboard() *Dashboard {
	return &Dashboard{
		sweep: SweepView{Hierarchy: report.BuildHierarchy(nil)},
		bandwidth: BandwidthView{Series: models.BandwidthSeries{
			Timestamps: []time.Time{},
			SentMbps:   []float64{},
			RecvMbps:   []float64{},
		}},
	}
}

// SetSweep stores a fresh hierarchy and clears the alert
func (d *Dashboard) SetSweep(h report.Hierarchy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweep = SweepView{Hierarchy: h, Ready: true}
}

// SetAlert raises the connectivity alert without touching the cached hierarchy
func (d *Dashboard) SetAlert(at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweep.Alert = true
	d.sweep.Message = AlertMessage
	d.sweep.AlertedAt = at
}

// Sweep returns the current liveness view
func (d *Dashboard) Sweep() SweepView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sweep
}

// SetBandwidth stores a fresh bandwidth series
func (d *Dashboard) SetBandwidth(series models.BandwidthSeries, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bandwidth = BandwidthView{Series: series, Ready: true, UpdatedAt: at}
}

// Bandwidth returns the current bandwidth view
func (d *Dashboard) Bandwidth() BandwidthView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bandwidth
}
