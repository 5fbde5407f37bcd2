package bandwidth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/net"
)

// Counters are cumulative byte counts since boot
type Counters struct {
	BytesSent uint64
	BytesRecv uint64
}

// CounterReader reads the host's cumulative interface counters
type CounterReader interface {
	Read(ctx context.Context) (Counters, error)
}

// NetCounterReader sums the counters of every interface on the host
type NetCounterReader struct{}

// Read returns the combined counters of all interfaces
func (NetCounterReader) Read(ctx context.Context) (Counters, error) {
	stats, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return Counters{}, fmt.Errorf("read interface counters: %w", err)
	}
	if len(stats) == 0 {
		return Counters{}, errors.New("read interface counters: no interfaces reported")
	}

	return Counters{
		BytesSent: stats[0].BytesSent,
		BytesRecv: stats[0].BytesRecv,
	}, nil
}
