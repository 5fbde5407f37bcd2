package ping

import (
	"context"
	"fmt"
	"net/netip"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"

	"lan-monitor/internal/models"
)

// Prober kinds accepted by New
const (
	KindExec = "exec"
	KindICMP = "icmp"
)

var rttPatterns = []*regexp.Regexp{
	regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`),
	regexp.MustCompile(`round-trip min/avg/max(?:/stddev)? = [0-9.]+/([0-9.]+)/`),
}

// New returns the prober of the given kind
func New(kind string, timeout time.Duration, privileged bool) (models.Prober, error) {
	switch kind {
	case KindExec, "":
		if _, err := exec.LookPath("ping"); err != nil {
			return nil, fmt.Errorf("ping binary not available: %w", err)
		}
		return NewPinger(timeout), nil
	case KindICMP:
		return NewICMPPinger(timeout, privileged), nil
	default:
		return nil, fmt.Errorf("unknown prober %q", kind)
	}
}

// Pinger probes addresses by running the system ping binary
type Pinger struct {
	timeout time.Duration
}

// NewPinger creates a new Pinger
func NewPinger(timeout time.Duration) *Pinger {
	return &Pinger{timeout: timeout}
}

// Probe sends one echo request to addr and reports whether it answered
func (p *Pinger) Probe(ctx context.Context, addr netip.Addr) models.ProbeResult {
	result := models.ProbeResult{Addr: addr}

	output, err := exec.CommandContext(ctx, "ping", pingArgs(runtime.GOOS, p.timeout, addr.String())...).CombinedOutput()
	if err != nil {
		return result
	}

	result.Reachable = true
	result.RTT = time.Duration(parsePingOutput(string(output)) * float64(time.Millisecond))
	return result
}

// pingArgs builds the platform-specific arguments for a single echo
func pingArgs(goos string, timeout time.Duration, target string) []string {
	ms := timeout.Milliseconds()
	if ms < 1 {
		ms = 1000
	}
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	switch goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(ms, 10), target}
	case "darwin":
		return []string{"-c", "1", "-W", strconv.FormatInt(ms, 10), target}
	default:
		return []string{"-c", "1", "-W", strconv.Itoa(secs), target}
	}
}

// parsePingOutput parses RTT in milliseconds from ping output
func parsePingOutput(output string) float64 {
	// Linux/Mac: "time=XX.X ms"
	// Windows: "time=XXms" or "time<1ms"
	for _, re := range rttPatterns {
		matches := re.FindStringSubmatch(output)
		if len(matches) > 1 {
			if rtt, err := strconv.ParseFloat(matches[1], 64); err == nil {
				return rtt
			}
		}
	}

	return 0
}
