package models

import "time"

// SubnetEntry maps a subnet identifier to the department that owns it.
// The identifier is either a wildcard ("10.53.2.*") or a CIDR block.
type SubnetEntry struct {
	Subnet     string `json:"subnet" mapstructure:"subnet"`
	Department string `json:"department" mapstructure:"department"`
}

// SubnetSpec is the static, ordered list of subnets swept on every pass
type SubnetSpec []SubnetEntry

// SubnetResult holds the number of live hosts found in one subnet
type SubnetResult struct {
	Subnet      string `json:"subnet"`
	Department  string `json:"department"`
	ActiveHosts int    `json:"active_hosts"`
}

// SweepReport is the aggregated result of one sweep over every configured subnet.
// Subnets that failed are listed in Errors and omitted from Results.
type SweepReport struct {
	ID          string         `json:"id"`
	Results     []SubnetResult `json:"results"`
	TotalActive int            `json:"total_active"`
	CompletedAt time.Time      `json:"completed_at"`
	Duration    time.Duration  `json:"duration"`
	Errors      []string       `json:"errors"`
}

// BandwidthSample is one throughput delta taken from the host's interface counters
type BandwidthSample struct {
	Timestamp time.Time     `json:"timestamp"`
	BytesSent uint64        `json:"bytes_sent"`
	BytesRecv uint64        `json:"bytes_recv"`
	Interval  time.Duration `json:"interval"` // span the deltas cover
}

// BandwidthSeries is a plot-ready view of samples in megabits per second
type BandwidthSeries struct {
	Timestamps []time.Time `json:"timestamps"`
	SentMbps   []float64   `json:"sent_mbps"`
	RecvMbps   []float64   `json:"recv_mbps"`
}
