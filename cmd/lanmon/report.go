package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lan-monitor/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		outputDir string
		window    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write charts and a text summary from stored history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if window <= 0 {
				window = cfg.Bandwidth.Window
			}

			db, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			dir, err := report.NewGenerator(db).GenerateReport(cmd.Context(), outputDir, window)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "reports", "directory to write the report into")
	cmd.Flags().DurationVar(&window, "window", 0, "bandwidth history to include (default bandwidth.window)")
	cmd.Flags().String("driver", "", "database driver (sqlite, mysql, postgres)")
	cmd.Flags().String("db", "", "database DSN")
	return cmd
}
