package models

import (
	"context"
	"net/netip"
	"time"
)

// Store defines operations for data persistence
type Store interface {
	AppendSample(ctx context.Context, sample BandwidthSample) error
	QuerySamples(ctx context.Context, start, end time.Time) ([]BandwidthSample, error)
	SaveSweep(ctx context.Context, report *SweepReport) error
	LatestSweep(ctx context.Context) (*SweepReport, error)
	Prune(ctx context.Context, before time.Time) error
	Close() error
}

// Prober checks whether a single address answers a liveness probe.
// An unreachable address is a negative result, not an error.
type Prober interface {
	Probe(ctx context.Context, addr netip.Addr) ProbeResult
}
