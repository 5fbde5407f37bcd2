package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"lan-monitor/internal/bandwidth"
	"lan-monitor/internal/models"
)

// WriteSummary writes a plain text report of the latest sweep and the
// bandwidth history inside the window
func WriteSummary(w io.Writer, now time.Time, window time.Duration, latest *models.SweepReport, samples []models.BandwidthSample) error {
	var b strings.Builder

	fmt.Fprintf(&b, "LAN Monitor Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format(TimeLayout))
	fmt.Fprintf(&b, "Period: Last %s\n\n", window)
	fmt.Fprintln(&b, strings.Repeat("=", 60))

	fmt.Fprintln(&b, "\nSUBNET SWEEP")
	if latest == nil {
		fmt.Fprintln(&b, "No sweep has completed yet.")
	} else {
		fmt.Fprintf(&b, "Completed: %s (%s, took %s)\n",
			latest.CompletedAt.Local().Format(TimeLayout),
			humanize.RelTime(latest.CompletedAt, now, "ago", "from now"),
			latest.Duration.Round(time.Millisecond))
		fmt.Fprintf(&b, "Active Devices: %s\n\n", humanize.Comma(int64(latest.TotalActive)))
		for _, res := range latest.Results {
			fmt.Fprintf(&b, "  %-18s %-28s %5d\n", res.Subnet, res.Department, res.ActiveHosts)
		}
		if len(latest.Errors) > 0 {
			fmt.Fprintln(&b, "\nErrors:")
			for _, e := range latest.Errors {
				fmt.Fprintf(&b, "  %s\n", e)
			}
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat("=", 60))

	fmt.Fprintln(&b, "\nBANDWIDTH")
	if len(samples) == 0 {
		fmt.Fprintln(&b, "No bandwidth samples recorded.")
	} else {
		var sent, recv uint64
		var peakSent, peakRecv float64
		for _, s := range samples {
			sent += s.BytesSent
			recv += s.BytesRecv
			peakSent = max(peakSent, bandwidth.Mbps(s.BytesSent, s.Interval))
			peakRecv = max(peakRecv, bandwidth.Mbps(s.BytesRecv, s.Interval))
		}
		fmt.Fprintf(&b, "Samples: %d\n", len(samples))
		fmt.Fprintf(&b, "Sent: %s (peak %.2f Mbps)\n", humanize.IBytes(sent), peakSent)
		fmt.Fprintf(&b, "Received: %s (peak %.2f Mbps)\n", humanize.IBytes(recv), peakRecv)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat("=", 60))

	_, err := io.WriteString(w, b.String())
	return err
}
