package commands

import (
	"fmt"

	"pipeline/src/utils"

	"github.com/spf13/cobra"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the valuation pipeline once for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			if csvPath != "" {
				a.cfg.Pipeline.CSVPath = csvPath
			}
			return runOnce(cmd, a)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "portfolio CSV path (overrides pipeline.csvPath)")
	return cmd
}

func runOnce(cmd *cobra.Command, a *app) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	pipeline, _ := a.services(db)

	report, err := pipeline.Run(a.context(cmd.Context()))
	if err != nil {
		return err
	}

	date := report.Date.Format(utils.ShortDashDateLayout)
	if !report.Ran() {
		fmt.Fprintf(cmd.OutOrStdout(), "no run on %s: weekend\n", date)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pipeline completed for %s (%d rows, total %s)\n", date, report.Rows, report.Total)
	return nil
}
