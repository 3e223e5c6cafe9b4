// Command careerbert uploads a resume to the CareerBERT backend, follows the
// analysis and prints the results.
//
//	careerbert analyze resume.pdf --jd-file job.txt --location Berlin
//	careerbert results
//	careerbert report
//	careerbert history
//	careerbert serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/UtsavYadav1/CareerBERT/internal/bootstrap"
	"github.com/UtsavYadav1/CareerBERT/internal/chart"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/config"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/db"
	"github.com/UtsavYadav1/CareerBERT/internal/view/terminal"
	"github.com/UtsavYadav1/CareerBERT/internal/workflow"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var baseURL string
	root := &cobra.Command{
		Use:          "careerbert",
		Short:        "Resume analysis client for the CareerBERT backend",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if baseURL != "" {
				os.Setenv("CAREERBERT_BASE_URL", baseURL)
			}
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides CAREERBERT_BASE_URL)")

	root.AddCommand(
		newAnalyzeCmd(),
		newResultsCmd(),
		newReportCmd(),
		newHistoryCmd(),
		newServeCmd(),
	)
	return root
}

// loadApp builds shared dependencies for a short-lived command.
func loadApp(ctx context.Context) (*bootstrap.App, error) {
	cfg := config.Load()
	return bootstrap.Build(ctx, cfg, db.DefaultCLIOptions())
}

func newRunner(app *bootstrap.App, cmd *cobra.Command) *workflow.Runner {
	return &workflow.Runner{
		Client:  app.Client,
		PushURL: app.Config.PushURL,
		Store:   app.Store,
		History: app.History,
		Events:  app.Events,
		Surface: chart.DirSurface{Dir: app.Config.OutputDir},
		Out:     terminal.New(cmd.OutOrStdout()),
	}
}

func chartPaths(dir string) string {
	surface := chart.DirSurface{Dir: dir}
	score, _ := surface.Path(chart.ScoreCanvas)
	pie, _ := surface.Path(chart.PieCanvas)
	return fmt.Sprintf("Charts: %s, %s", score, pie)
}
