package models

import (
	"net/netip"
	"time"
)

// ProbeResult is the outcome of a single reachability probe
type ProbeResult struct {
	Addr      netip.Addr    `json:"addr"`
	Reachable bool          `json:"reachable"`
	RTT       time.Duration `json:"rtt"`
}
