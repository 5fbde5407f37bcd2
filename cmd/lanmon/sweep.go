package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lan-monitor/internal/models"
)

func newSweepCmd() *cobra.Command {
	var (
		asJSON bool
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a single sweep over the configured subnets and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sweeper, pool, err := newSweeper(cfg)
			if err != nil {
				return err
			}
			defer pool.Stop()

			report := sweeper.Sweep(ctx, cfg.Subnets)
			if err := ctx.Err(); err != nil {
				return err
			}

			if save {
				db, err := openStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.SaveSweep(ctx, report); err != nil {
					return fmt.Errorf("failed to save sweep: %w", err)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printSweep(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "store the report in the database")
	cmd.Flags().String("driver", "", "database driver (sqlite, mysql, postgres)")
	cmd.Flags().String("db", "", "database DSN")
	cmd.Flags().Int("workers", 0, "concurrent probes")
	cmd.Flags().String("prober", "", "probe implementation (exec, icmp)")
	return cmd
}

func printSweep(w io.Writer, report *models.SweepReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBNET\tDEPARTMENT\tACTIVE")
	for _, res := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", res.Subnet, res.Department, res.ActiveHosts)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nActive Devices Count: %s (swept in %s)\n",
		humanize.Comma(int64(report.TotalActive)), report.Duration.Round(time.Millisecond))
	for _, e := range report.Errors {
		fmt.Fprintln(w, e)
	}
	return nil
}
