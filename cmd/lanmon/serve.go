package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lan-monitor/internal/bandwidth"
	"lan-monitor/internal/connectivity"
	"lan-monitor/internal/monitor"
	"lan-monitor/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sweep and bandwidth workers and serve the dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().Int("port", 0, "web server port")
	cmd.Flags().String("driver", "", "database driver (sqlite, mysql, postgres)")
	cmd.Flags().String("db", "", "database DSN")
	cmd.Flags().Int("workers", 0, "concurrent probes")
	cmd.Flags().String("prober", "", "probe implementation (exec, icmp)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sweeper, pool, err := newSweeper(cfg)
	if err != nil {
		return err
	}
	defer pool.Stop()

	sampler := bandwidth.NewSampler(bandwidth.NetCounterReader{}, cfg.Bandwidth.SampleInterval)
	checker := connectivity.New(cfg.Connectivity.URL, cfg.Connectivity.Timeout)

	mon := monitor.New(*cfg, db, sweeper, sampler, checker)
	webServer, err := web.New(mon.Dashboard(), db, *cfg)
	if err != nil {
		return err
	}

	if err := mon.Start(); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- webServer.Start()
	}()

	log.Printf("Web interface available at http://localhost:%d", cfg.Server.Port)

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-serverErr:
		if err != nil {
			log.Printf("Web server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := webServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("Web server shutdown: %v", shutdownErr)
	}

	mon.Stop()
	mon.Wait()
	return err
}
