// Package bandwidth samples host network throughput.
package bandwidth

import (
	"context"
	"sync"
	"time"

	"lan-monitor/internal/models"
)

// Sampler turns cumulative counters into per-sample deltas. It keeps the
// previous reading between calls, so only the first Sample waits for the
// baseline interval.
type Sampler struct {
	reader   CounterReader
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	primed bool
	prev   Counters
	prevAt time.Time
}

// NewSampler creates a Sampler whose first sample spans interval
func NewSampler(reader CounterReader, interval time.Duration) *Sampler {
	return &Sampler{
		reader:   reader,
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Sample returns the bytes sent and received since the previous call
func (s *Sampler) Sample(ctx context.Context) (models.BandwidthSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.primed {
		base, err := s.reader.Read(ctx)
		if err != nil {
			return models.BandwidthSample{}, err
		}
		s.prev, s.prevAt, s.primed = base, s.now(), true

		if err := s.sleep(ctx, s.interval); err != nil {
			return models.BandwidthSample{}, err
		}
	}

	cur, err := s.reader.Read(ctx)
	if err != nil {
		return models.BandwidthSample{}, err
	}
	at := s.now()

	sample := models.BandwidthSample{
		Timestamp: at,
		BytesSent: delta(s.prev.BytesSent, cur.BytesSent),
		BytesRecv: delta(s.prev.BytesRecv, cur.BytesRecv),
		Interval:  at.Sub(s.prevAt),
	}
	s.prev, s.prevAt = cur, at

	return sample, nil
}

// delta treats a counter that went backwards (interface reset, reboot) as zero traffic
func delta(prev, cur uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Series converts samples to megabits per second for plotting
func Series(samples []models.BandwidthSample) models.BandwidthSeries {
	series := models.BandwidthSeries{
		Timestamps: make([]time.Time, 0, len(samples)),
		SentMbps:   make([]float64, 0, len(samples)),
		RecvMbps:   make([]float64, 0, len(samples)),
	}

	for _, sample := range samples {
		series.Timestamps = append(series.Timestamps, sample.Timestamp)
		series.SentMbps = append(series.SentMbps, Mbps(sample.BytesSent, sample.Interval))
		series.RecvMbps = append(series.RecvMbps, Mbps(sample.BytesRecv, sample.Interval))
	}
	return series
}

// Mbps converts a byte count over interval to megabits per second. Samples
// without an interval are assumed to cover one second.
func Mbps(bytes uint64, interval time.Duration) float64 {
	secs := interval.Seconds()
	if secs <= 0 {
		secs = 1
	}
	return float64(bytes) * 8 / secs / (1024 * 1024)
}
