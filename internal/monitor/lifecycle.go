package monitor

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// vacuumer is implemented by stores that can reclaim space after pruning
type vacuumer interface {
	Vacuum(ctx context.Context, now time.Time) error
}

// maintenanceWorker runs periodic maintenance tasks
func (m *Monitor) maintenanceWorker() {
	m.runTicker(time.Hour, m.performMaintenance)
}

// performMaintenance drops history older than the retention period
func (m *Monitor) performMaintenance() {
	log.Println("Running maintenance tasks...")

	now := m.now()
	if err := m.store.Prune(m.ctx, now.Add(-m.config.Bandwidth.Retention)); err != nil {
		log.Printf("Failed to prune old data: %v", err)
		return
	}

	if v, ok := m.store.(vacuumer); ok {
		if err := v.Vacuum(m.ctx, now); err != nil {
			log.Printf("Failed to vacuum database: %v", err)
		}
	}

	log.Println("Maintenance complete")
}
