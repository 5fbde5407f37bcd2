package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lan-monitor/internal/models"
)

// AppendSample saves a bandwidth sample to the database
func (db *DB) AppendSample(ctx context.Context, sample models.BandwidthSample) error {
	query := `
        INSERT INTO bandwidth_samples (sampled_at, bytes_sent, bytes_recv, interval_ms)
        VALUES (?, ?, ?, ?)
    `
	_, err := db.ExecContext(ctx, db.rebind(query),
		sample.Timestamp.UTC(),
		int64(sample.BytesSent),
		int64(sample.BytesRecv),
		sample.Interval.Milliseconds(),
	)
	return err
}

// QuerySamples retrieves samples taken between start and end, oldest first
func (db *DB) QuerySamples(ctx context.Context, start, end time.Time) ([]models.BandwidthSample, error) {
	query := `
        SELECT sampled_at, bytes_sent, bytes_recv, interval_ms
        FROM bandwidth_samples
        WHERE sampled_at BETWEEN ? AND ?
        ORDER BY sampled_at, id
    `

	rows, err := db.QueryContext(ctx, db.rebind(query), start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []models.BandwidthSample{}
	for rows.Next() {
		var s models.BandwidthSample
		var intervalMS int64
		if err := rows.Scan(&s.Timestamp, &s.BytesSent, &s.BytesRecv, &intervalMS); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		s.Timestamp = s.Timestamp.UTC()
		s.Interval = time.Duration(intervalMS) * time.Millisecond
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// SaveSweep stores a sweep report and its per-subnet results in one transaction
func (db *DB) SaveSweep(ctx context.Context, report *models.SweepReport) error {
	errs, err := json.Marshal(report.Errors)
	if err != nil {
		return fmt.Errorf("encode sweep errors: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runQuery := `
        INSERT INTO sweep_runs (sweep_id, completed_at, duration_ms, total_active, errors)
        VALUES (?, ?, ?, ?, ?)
    `
	if _, err := tx.ExecContext(ctx, db.rebind(runQuery),
		report.ID,
		report.CompletedAt.UTC(),
		report.Duration.Milliseconds(),
		report.TotalActive,
		string(errs),
	); err != nil {
		return fmt.Errorf("insert sweep run: %w", err)
	}

	resultQuery := db.rebind(`
        INSERT INTO sweep_results (sweep_id, ordinal, subnet, department, active_hosts)
        VALUES (?, ?, ?, ?, ?)
    `)
	for i, res := range report.Results {
		if _, err := tx.ExecContext(ctx, resultQuery, report.ID, i, res.Subnet, res.Department, res.ActiveHosts); err != nil {
			return fmt.Errorf("insert sweep result %s: %w", res.Subnet, err)
		}
	}

	return tx.Commit()
}

// LatestSweep returns the most recently completed sweep, or nil when none is stored
func (db *DB) LatestSweep(ctx context.Context) (*models.SweepReport, error) {
	runQuery := `
        SELECT sweep_id, completed_at, duration_ms, total_active, errors
        FROM sweep_runs
        ORDER BY completed_at DESC
        LIMIT 1
    `

	var (
		report     models.SweepReport
		durationMS int64
		errs       string
	)
	err := db.QueryRowContext(ctx, runQuery).Scan(&report.ID, &report.CompletedAt, &durationMS, &report.TotalActive, &errs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	report.CompletedAt = report.CompletedAt.UTC()
	report.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(errs), &report.Errors); err != nil {
		return nil, fmt.Errorf("decode sweep errors: %w", err)
	}

	resultQuery := `
        SELECT subnet, department, active_hosts
        FROM sweep_results
        WHERE sweep_id = ?
        ORDER BY ordinal
    `
	rows, err := db.QueryContext(ctx, db.rebind(resultQuery), report.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report.Results = []models.SubnetResult{}
	for rows.Next() {
		var res models.SubnetResult
		if err := rows.Scan(&res.Subnet, &res.Department, &res.ActiveHosts); err != nil {
			return nil, fmt.Errorf("scan sweep result: %w", err)
		}
		report.Results = append(report.Results, res)
	}

	return &report, rows.Err()
}
