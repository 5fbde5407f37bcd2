package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ErrUnsupportedDriver is returned by New for drivers other than sqlite, mysql and postgres
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// sqlitePragmas enable WAL mode so readers do not block the sample writer
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
}

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
	driver string
}

// New creates a new database connection for driver ("sqlite", "mysql" or "postgres")
func New(driver, dsn string) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch driver {
	case "sqlite":
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("database open failed: %w", err)
		}
		for _, pragma := range sqlitePragmas {
			if _, perr := db.Exec(pragma); perr != nil {
				log.Warnf("SQLite %s failed: %v", pragma, perr)
			}
		}
	case "mysql":
		cfg, perr := mysql.ParseDSN(dsn)
		if perr != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", perr)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		db, err = sql.Open("mysql", cfg.FormatDSN())
	case "postgres":
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	return &DB{DB: db, driver: driver}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemas[db.driver] {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema creation failed: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres
func (db *DB) rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MySQL rejects multi-statement Exec by default, so each dialect is a list
var schemas = map[string][]string{
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS bandwidth_samples (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            sampled_at DATETIME NOT NULL,
            bytes_sent INTEGER NOT NULL,
            bytes_recv INTEGER NOT NULL,
            interval_ms INTEGER NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_bandwidth_sampled_at ON bandwidth_samples(sampled_at)`,
		`CREATE TABLE IF NOT EXISTS sweep_runs (
            sweep_id TEXT PRIMARY KEY,
            completed_at DATETIME NOT NULL,
            duration_ms INTEGER NOT NULL,
            total_active INTEGER NOT NULL,
            errors TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_runs_completed_at ON sweep_runs(completed_at)`,
		`CREATE TABLE IF NOT EXISTS sweep_results (
            sweep_id TEXT NOT NULL,
            ordinal INTEGER NOT NULL,
            subnet TEXT NOT NULL,
            department TEXT NOT NULL,
            active_hosts INTEGER NOT NULL,
            PRIMARY KEY (sweep_id, ordinal)
        )`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS bandwidth_samples (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            sampled_at DATETIME(3) NOT NULL,
            bytes_sent BIGINT NOT NULL,
            bytes_recv BIGINT NOT NULL,
            interval_ms BIGINT NOT NULL,
            INDEX idx_bandwidth_sampled_at (sampled_at)
        )`,
		`CREATE TABLE IF NOT EXISTS sweep_runs (
            sweep_id CHAR(36) PRIMARY KEY,
            completed_at DATETIME(3) NOT NULL,
            duration_ms BIGINT NOT NULL,
            total_active INT NOT NULL,
            errors TEXT NOT NULL,
            INDEX idx_sweep_runs_completed_at (completed_at)
        )`,
		`CREATE TABLE IF NOT EXISTS sweep_results (
            sweep_id CHAR(36) NOT NULL,
            ordinal INT NOT NULL,
            subnet VARCHAR(64) NOT NULL,
            department VARCHAR(128) NOT NULL,
            active_hosts INT NOT NULL,
            PRIMARY KEY (sweep_id, ordinal)
        )`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS bandwidth_samples (
            id BIGSERIAL PRIMARY KEY,
            sampled_at TIMESTAMPTZ NOT NULL,
            bytes_sent BIGINT NOT NULL,
            bytes_recv BIGINT NOT NULL,
            interval_ms BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_bandwidth_sampled_at ON bandwidth_samples(sampled_at)`,
		`CREATE TABLE IF NOT EXISTS sweep_runs (
            sweep_id TEXT PRIMARY KEY,
            completed_at TIMESTAMPTZ NOT NULL,
            duration_ms BIGINT NOT NULL,
            total_active INTEGER NOT NULL,
            errors TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_runs_completed_at ON sweep_runs(completed_at)`,
		`CREATE TABLE IF NOT EXISTS sweep_results (
            sweep_id TEXT NOT NULL,
            ordinal INTEGER NOT NULL,
            subnet TEXT NOT NULL,
            department TEXT NOT NULL,
            active_hosts INTEGER NOT NULL,
            PRIMARY KEY (sweep_id, ordinal)
        )`,
	},
}
