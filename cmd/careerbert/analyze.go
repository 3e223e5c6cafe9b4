package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UtsavYadav1/CareerBERT/internal/workflow"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		jobDescription string
		jdFile         string
		location       string
		withReport     bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <resume-file>",
		Short: "Upload a resume, follow the analysis and print the results",
		Long: `Upload a PDF or plain-text resume together with a job description.

Progress is streamed from the backend until the analysis completes, then the
results page is fetched, printed and recorded in the local history.

Example:
  careerbert analyze resume.pdf --jd-file job.txt
  careerbert analyze resume.txt --jd "Senior Go engineer" --location Berlin --report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jdFile != "" {
				data, err := os.ReadFile(jdFile)
				if err != nil {
					return fmt.Errorf("read job description: %w", err)
				}
				jobDescription = string(data)
			}

			app, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			runner := newRunner(app, cmd)
			outcome, err := runner.Analyze(cmd.Context(), workflow.AnalyzeOptions{
				ResumePath:     args[0],
				JobDescription: strings.TrimSpace(jobDescription),
				Location:       strings.TrimSpace(location),
				DownloadReport: withReport,
			})
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
	cmd.Flags().StringVar(&jobDescription, "jd", "", "job description text")
	cmd.Flags().StringVar(&jdFile, "jd-file", "", "read the job description from a file")
	cmd.Flags().StringVar(&location, "location", "", "preferred job location for recommendations")
	cmd.Flags().BoolVar(&withReport, "report", false, "download the generated report after the results")
	cmd.MarkFlagsMutuallyExclusive("jd", "jd-file")
	return cmd
}
