package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var (
		path       string
		withReport bool
	)
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Fetch and print the latest analysis results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			outcome, err := newRunner(app, cmd).ResultsPage(cmd.Context(), path, "", withReport)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, chartPaths(app.Config.OutputDir))
			if outcome.Report != nil {
				fmt.Fprintf(w, "Report: %s\n", outcome.Report.Location)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "/results-page", "page path; /results renders default charts without fetching")
	cmd.Flags().BoolVar(&withReport, "report", false, "also download the report")
	return cmd
}
