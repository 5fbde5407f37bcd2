package report

import (
	"fmt"
	"time"

	"lan-monitor/internal/models"
)

// TimeLayout is how sweep completion times are shown to users
const TimeLayout = "2006-01-02 15:04:05"

// Node is one entry of a hierarchical chart. Leaves hang directly off the
// implicit root, whose ID is the empty string.
type Node struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Parent     string `json:"parent"`
	Department string `json:"department"`
	Value      int    `json:"value"`
}

// Hierarchy is the chart-ready form of a sweep report
type Hierarchy struct {
	Title       string    `json:"title"`
	Annotation  string    `json:"annotation"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
	Nodes       []Node    `json:"nodes"`
	Errors      []string  `json:"errors"`
}

// BuildHierarchy lays out one leaf per swept subnet, labelled with its
// department, under a root titled with the total active count
func BuildHierarchy(report *models.SweepReport) Hierarchy {
	h := Hierarchy{
		Title:  "Active Devices Count: 0",
		Nodes:  []Node{},
		Errors: []string{},
	}
	if report == nil {
		return h
	}

	h.Title = fmt.Sprintf("Active Devices Count: %d", report.TotalActive)
	h.Annotation = fmt.Sprintf("Last Refreshed: %s", report.CompletedAt.Local().Format(TimeLayout))
	h.Total = report.TotalActive
	h.CompletedAt = report.CompletedAt
	h.Errors = append(h.Errors, report.Errors...)

	for _, res := range report.Results {
		h.Nodes = append(h.Nodes, Node{
			ID:         res.Subnet,
			Label:      fmt.Sprintf("%s\n(%s)", res.Subnet, res.Department),
			Parent:     "",
			Department: res.Department,
			Value:      res.ActiveHosts,
		})
	}
	return h
}
