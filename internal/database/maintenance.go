package database

import (
	"context"
	"time"
)

// Prune deletes samples and sweep history recorded before the cutoff
func (db *DB) Prune(ctx context.Context, before time.Time) error {
	cutoff := before.UTC()

	if _, err := db.ExecContext(ctx, db.rebind(`DELETE FROM bandwidth_samples WHERE sampled_at < ?`), cutoff); err != nil {
		return err
	}

	deleteResults := `
        DELETE FROM sweep_results
        WHERE sweep_id IN (SELECT sweep_id FROM sweep_runs WHERE completed_at < ?)
    `
	if _, err := db.ExecContext(ctx, db.rebind(deleteResults), cutoff); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, db.rebind(`DELETE FROM sweep_runs WHERE completed_at < ?`), cutoff); err != nil {
		return err
	}

	return nil
}

// Vacuum reclaims space on sqlite once a month; other drivers manage this themselves
func (db *DB) Vacuum(ctx context.Context, now time.Time) error {
	if db.driver != "sqlite" || now.Day() != 1 {
		return nil
	}
	_, err := db.ExecContext(ctx, "VACUUM")
	return err
}
