// Package workflow drives page sessions from the command line: the upload
// page through to the results page, the results page alone, and the report
// download.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/chart"
	"github.com/UtsavYadav1/CareerBERT/internal/history"
	"github.com/UtsavYadav1/CareerBERT/internal/page"
	"github.com/UtsavYadav1/CareerBERT/internal/progress"
	"github.com/UtsavYadav1/CareerBERT/internal/push"
	"github.com/UtsavYadav1/CareerBERT/internal/queue"
	"github.com/UtsavYadav1/CareerBERT/internal/report"
	"github.com/UtsavYadav1/CareerBERT/internal/results"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/upload"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
	"github.com/UtsavYadav1/CareerBERT/internal/view/terminal"
)

// DefaultRenderEvery is how often the progress line is refreshed.
const DefaultRenderEvery = 250 * time.Millisecond

// settleMargin runs after the results page retry so its fetch has been issued.
const settleMargin = 50 * time.Millisecond

var (
	// ErrAnalysisFailed is returned when the backend pushes an error or the upload is rejected.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrPushClosed is returned when the push channel ends before completion.
	ErrPushClosed = errors.New("push channel closed before completion")
)

// Runner holds what a command needs to open page sessions.
type Runner struct {
	Client  *apiclient.Client
	PushURL string
	Store   object.Store
	History history.Repo
	Events  queue.Client
	Surface chart.Surface
	Out     *terminal.Printer

	// RenderEvery overrides DefaultRenderEvery when positive.
	RenderEvery time.Duration
}

// AnalyzeOptions describe one submission.
type AnalyzeOptions struct {
	ResumePath     string
	JobDescription string
	Location       string
	DownloadReport bool
}

// Outcome is what a results page session produced.
type Outcome struct {
	Page    view.ResultsPage
	Results *results.Results
	Entry   *history.Entry
	Report  *report.Saved
}

type alertSink struct {
	out *terminal.Printer
}

func (s alertSink) Show(a alerts.Alert) {
	if s.out != nil {
		s.out.Alert(a.Level, a.Message)
	}
}

func (alertSink) Dismiss(string) {}

// Analyze runs the upload page, follows pushed progress to completion and
// then runs the results page it navigates to.
func (r *Runner) Analyze(ctx context.Context, opts AnalyzeOptions) (Outcome, error) {
	sink := alertSink{out: r.Out}
	sess := page.NewSession("/", nil, sink)
	defer sess.Close()

	conn, err := push.Dial(ctx, r.PushURL, r.Client.Jar())
	if err != nil {
		return Outcome{}, err
	}
	defer conn.Close()

	bar := view.NewProgressBar()
	submit := view.NewSubmitControl()
	ctrl := upload.NewController(sess.Sched, bar, submit, sess.Alerts, r.Client, conn)

	navigated := make(chan string, 1)
	failed := make(chan error, 1)
	tracker := progress.New(sess.Sched, bar, submit, sess.Alerts, func(path string) {
		select {
		case navigated <- path:
		default:
		}
	})
	tracker.OnSettle(ctrl.StopSimulation)
	tracker.OnSettle(func() {
		if tracker.State() != progress.Completed {
			signal(failed, ErrAnalysisFailed)
		}
	})
	ctrl.OnStart(tracker.Begin)

	form, err := ctrl.SelectFile(opts.ResumePath)
	if err != nil {
		return Outcome{}, err
	}
	form.JobDescription = opts.JobDescription
	form.Location = opts.Location
	if r.Out != nil {
		r.Out.Counter(view.Count(utf8.RuneCountInString(form.JobDescription), upload.MaxDescriptionLen))
	}

	r.renderProgress(sess, bar)

	pumpCtx, stopPump := context.WithCancel(ctx)
	defer stopPump()
	go func() {
		tracker.Pump(pumpCtx, conn.Events())
		signal(failed, ErrPushClosed)
	}()

	if err := ctrl.Submit(ctx, form); err != nil {
		return Outcome{}, err
	}

	var path string
	select {
	case path = <-navigated:
	case err := <-failed:
		if !errors.Is(err, ErrPushClosed) {
			return Outcome{}, err
		}
		// the channel may close right after the completion latch fires
		select {
		case path = <-navigated:
		case <-time.After(progress.RedirectDelay * 2):
			return Outcome{}, err
		}
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}

	stopPump()
	sess.Close()
	telemetry.Info("page.navigate", map[string]any{"from": sess.ID, "path": path})
	return r.ResultsPage(ctx, path, form.FileName, opts.DownloadReport)
}

func (r *Runner) renderProgress(sess *page.Session, bar *view.ProgressBar) {
	if r.Out == nil {
		return
	}
	every := r.RenderEvery
	if every <= 0 {
		every = DefaultRenderEvery
	}
	lastPercent, lastStatus := -1, ""
	sess.Sched.Every(every, func() {
		if !bar.Visible || (bar.Percent == lastPercent && bar.Status == lastStatus) {
			return
		}
		lastPercent, lastStatus = bar.Percent, bar.Status
		r.Out.Progress(bar)
	})
}

// ResultsPage runs one results page session at path, records the fetched
// results in history and optionally downloads the report.
func (r *Runner) ResultsPage(ctx context.Context, path, filename string, withReport bool) (Outcome, error) {
	sess := page.NewSession(path, nil, alertSink{out: r.Out})
	defer sess.Close()

	store := page.NewStore()
	rc := page.NewResultsController(sess, r.Client, chart.NewEcharts(r.Surface), store)
	var fetched *results.Results
	rc.OnResults(func(res results.Results) { fetched = &res })

	rc.Enter(ctx)
	rc.Wait()
	rc.Loaded(ctx)
	rc.Wait()

	settled := make(chan struct{})
	sess.Sched.After(page.RetryDelay+settleMargin, func() { close(settled) })
	select {
	case <-settled:
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
	rc.Wait()

	var out Outcome
	sess.Sched.Do(func() { out.Results = fetched })
	out.Page = store.Page()
	if r.Out != nil {
		r.Out.Results(out.Page)
	}

	if out.Results != nil && r.History != nil {
		entry := history.NewEntry(sess.ID, filename, *out.Results, time.Now())
		if err := r.History.Create(ctx, entry); err != nil {
			telemetry.Error("history.record_failed", map[string]any{"session_id": sess.ID, "error": err})
		} else {
			out.Entry = &entry
			r.publish(ctx, entry)
		}
	}

	if withReport {
		saved, err := r.download(ctx, sess)
		if err != nil {
			return out, err
		}
		out.Report = &saved
	}
	return out, nil
}

// Report downloads the report in a fresh session.
func (r *Runner) Report(ctx context.Context) (report.Saved, error) {
	sess := page.NewSession("/results-page", nil, alertSink{out: r.Out})
	defer sess.Close()
	return r.download(ctx, sess)
}

func (r *Runner) download(ctx context.Context, sess *page.Session) (report.Saved, error) {
	if r.Store == nil {
		return report.Saved{}, fmt.Errorf("report: no object store configured")
	}
	d := report.NewDownloader(sess.Sched, sess.Alerts, r.Client, r.Store, sess.ID)
	d.Bind(report.NewControl("downloadReportBtn"))
	return d.Trigger(ctx)
}

// publish announces a recorded entry. Failures are logged only.
func (r *Runner) publish(ctx context.Context, entry history.Entry) {
	if r.Events == nil {
		return
	}
	if err := r.Events.Send(ctx, queue.FromEntry(entry)); err != nil {
		telemetry.Warn("history.publish_failed", map[string]any{"entry_id": entry.ID, "error": err})
		return
	}
	telemetry.Debug("history.published", map[string]any{"entry_id": entry.ID})
}

func signal(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}
