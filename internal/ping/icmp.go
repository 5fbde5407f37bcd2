package ping

import (
	"context"
	"net/netip"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"lan-monitor/internal/models"
)

// ICMPPinger sends echo requests itself instead of shelling out. Unprivileged
// mode uses UDP ICMP sockets, which on Linux requires net.ipv4.ping_group_range
// to include the running group.
type ICMPPinger struct {
	timeout    time.Duration
	privileged bool
}

// NewICMPPinger creates a new ICMPPinger
func NewICMPPinger(timeout time.Duration, privileged bool) *ICMPPinger {
	return &ICMPPinger{timeout: timeout, privileged: privileged}
}

// Probe sends one echo request to addr and waits up to the configured timeout
func (p *ICMPPinger) Probe(ctx context.Context, addr netip.Addr) models.ProbeResult {
	result := models.ProbeResult{Addr: addr}

	pinger, err := probing.NewPinger(addr.String())
	if err != nil {
		return result
	}
	pinger.SetPrivileged(p.privileged)
	pinger.Count = 1
	pinger.Timeout = p.timeout

	if err := pinger.RunWithContext(ctx); err != nil {
		return result
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		result.Reachable = true
		result.RTT = stats.AvgRtt
	}
	return result
}
