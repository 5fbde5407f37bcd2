package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lan-monitor/internal/config"
	"lan-monitor/internal/database"
	"lan-monitor/internal/logger"
	"lan-monitor/internal/ping"
	"lan-monitor/internal/sweep"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lanmon",
		Short:         "LAN liveness sweep and bandwidth dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./configs/config.yaml or ./config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(), newSweepCmd(), newReportCmd())
	return root
}

// loadConfig resolves file, environment and flag settings and configures logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	if used := v.ConfigFileUsed(); used != "" {
		log.Printf("Loaded configuration from %s", used)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return db, nil
}

// newSweeper builds the probe pool once; callers stop the returned pool on exit
func newSweeper(cfg *config.Config) (*sweep.Sweeper, *sweep.WorkerPool, error) {
	prober, err := ping.New(cfg.Sweep.Prober, cfg.Sweep.ProbeTimeout, cfg.Sweep.Privileged)
	if err != nil {
		return nil, nil, err
	}
	pool := sweep.NewWorkerPool(prober, cfg.Sweep.Workers)
	log.Printf("Probe pool ready: %d concurrent %s probes, at most %d hosts per subnet",
		pool.Size(), cfg.Sweep.Prober, cfg.Sweep.MaxHosts)
	return sweep.New(pool, cfg.Sweep.MaxHosts), pool, nil
}
