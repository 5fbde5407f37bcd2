// Package sweep counts live hosts per configured subnet.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"lan-monitor/internal/models"
	"lan-monitor/internal/subnet"
)

// ErrDuplicateSubnet is recorded when a subnet identifier appears twice in one sweep
var ErrDuplicateSubnet = errors.New("subnet listed more than once")

// Sweeper probes every host of every configured subnet through a shared pool
type Sweeper struct {
	pool     *WorkerPool
	maxHosts int
	now      func() time.Time
}

// New creates a Sweeper. maxHosts caps the size of a single subnet and is
// itself capped at subnet.MaxHosts.
func New(pool *WorkerPool, maxHosts int) *Sweeper {
	return &Sweeper{
		pool:     pool,
		maxHosts: maxHosts,
		now:      time.Now,
	}
}

// Sweep probes the subnets one after another. A subnet that cannot be swept is
// reported in Errors and left out of Results and the total.
func (s *Sweeper) Sweep(ctx context.Context, spec models.SubnetSpec) *models.SweepReport {
	start := s.now()
	report := &models.SweepReport{
		ID:      uuid.NewString(),
		Results: make([]models.SubnetResult, 0, len(spec)),
		Errors:  []string{},
	}

	seen := make(map[string]struct{}, len(spec))
	for _, entry := range spec {
		var (
			count int
			err   error
		)
		if _, dup := seen[entry.Subnet]; dup {
			err = ErrDuplicateSubnet
		} else {
			seen[entry.Subnet] = struct{}{}
			count, err = s.SweepSubnet(ctx, entry.Subnet)
		}

		if err != nil {
			log.WithFields(log.Fields{
				"subnet":     entry.Subnet,
				"department": entry.Department,
			}).Warnf("Subnet sweep failed: %v", err)
			report.Errors = append(report.Errors, fmt.Sprintf("Error scanning %s: %v", entry.Subnet, err))
			continue
		}

		report.Results = append(report.Results, models.SubnetResult{
			Subnet:      entry.Subnet,
			Department:  entry.Department,
			ActiveHosts: count,
		})
		report.TotalActive += count
	}

	report.CompletedAt = s.now()
	report.Duration = report.CompletedAt.Sub(start)

	log.WithFields(log.Fields{
		"sweep_id": report.ID,
		"subnets":  len(report.Results),
		"active":   report.TotalActive,
		"errors":   len(report.Errors),
		"duration": report.Duration.Round(time.Millisecond),
	}).Info("Sweep complete")

	return report
}

// SweepSubnet expands identifier and returns how many of its hosts answered
func (s *Sweeper) SweepSubnet(ctx context.Context, identifier string) (int, error) {
	prefix, err := subnet.Parse(identifier)
	if err != nil {
		return 0, err
	}

	hosts, err := subnet.Hosts(prefix, s.maxHosts)
	if err != nil {
		return 0, err
	}

	results := make(chan models.ProbeResult, len(hosts))
	submitted := 0
	var submitErr error
	for _, addr := range hosts {
		if submitErr = s.pool.Submit(ctx, addr, results); submitErr != nil {
			break
		}
		submitted++
	}

	active := 0
	for i := 0; i < submitted; i++ {
		if r := <-results; r.Reachable {
			active++
		}
	}

	if submitErr != nil {
		return 0, submitErr
	}
	// probes cut short by cancellation read as unreachable
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return active, nil
}
