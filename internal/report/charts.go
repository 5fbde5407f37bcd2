package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"lan-monitor/internal/models"
)

// ErrNoData is returned when a chart has nothing to plot
var ErrNoData = errors.New("no data to plot")

// RenderSweepChart draws the subnet hierarchy as a pie of active hosts per subnet.
// Subnets with no live hosts are left out of the pie.
func RenderSweepChart(h Hierarchy, w io.Writer) error {
	var values []chart.Value
	for _, n := range h.Nodes {
		if n.Value == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %d", strings.ReplaceAll(n.Label, "\n", " "), n.Value),
			Value: float64(n.Value),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	title := h.Title
	if h.Annotation != "" {
		title = fmt.Sprintf("%s | %s", h.Title, h.Annotation)
	}

	pie := chart.PieChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 14,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  800,
		Height: 800,
		Values: values,
	}

	return pie.Render(chart.PNG, w)
}

// RenderBandwidthChart draws sent and received throughput over time
func RenderBandwidthChart(series models.BandwidthSeries, w io.Writer) error {
	n := len(series.Timestamps)
	if n < 2 || !series.Timestamps[n-1].After(series.Timestamps[0]) {
		return ErrNoData
	}

	maxMbps := 0.0
	for i := 0; i < n; i++ {
		maxMbps = max(maxMbps, series.SentMbps[i], series.RecvMbps[i])
	}
	if maxMbps == 0 {
		maxMbps = 1
	}

	graph := chart.Chart{
		Title: "Network Bandwidth",
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  1200,
		Height: 400,
		XAxis: chart.XAxis{
			Name: "Time",
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Bandwidth (Mbps)",
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxMbps * 1.1,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Sent (Mbps)",
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					StrokeWidth: 2,
				},
				XValues: series.Timestamps,
				YValues: series.SentMbps,
			},
			chart.TimeSeries{
				Name: "Received (Mbps)",
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(1),
					StrokeWidth: 2,
				},
				XValues: series.Timestamps,
				YValues: series.RecvMbps,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	return graph.Render(chart.PNG, w)
}
