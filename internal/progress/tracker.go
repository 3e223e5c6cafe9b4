// Package progress turns pushed progress events into the upload progress display.
package progress

import (
	"context"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/push"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/metrics"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

// ResultsPath is where a completed analysis navigates.
const ResultsPath = "/results-page"

// RedirectDelay separates the completion display from navigation.
const RedirectDelay = 600 * time.Millisecond

const defaultErrorMessage = "An error occurred"

// State is the tracker's position in Idle -> Receiving -> Completed.
type State int

const (
	Idle State = iota
	Receiving
	Completed
)

func (s State) String() string {
	switch s {
	case Receiving:
		return "receiving"
	case Completed:
		return "completed"
	default:
		return "idle"
	}
}

// Navigator leaves the current page.
type Navigator func(path string)

// Tracker merges job and sentence progress and redirects once both reach 100.
// Handle and the hooks run inside scheduler callbacks.
type Tracker struct {
	s        *sched.Scheduler
	bar      *view.ProgressBar
	submit   *view.Control
	notifier *alerts.Notifier
	navigate Navigator

	state     State
	job       float64
	sentence  float64
	latched   bool
	redirect  *sched.Task
	startedAt time.Time
	settle    []func()
}

// New builds an idle tracker.
func New(s *sched.Scheduler, bar *view.ProgressBar, submit *view.Control, notifier *alerts.Notifier, navigate Navigator) *Tracker {
	return &Tracker{s: s, bar: bar, submit: submit, notifier: notifier, navigate: navigate}
}

// OnSettle registers fn to run when the analysis completes or fails.
func (t *Tracker) OnSettle(fn func()) {
	t.settle = append(t.settle, fn)
}

// Begin marks the upload start, used to time the analysis.
func (t *Tracker) Begin() {
	t.startedAt = t.s.Clock().Now()
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Last returns the last-known progress pair.
func (t *Tracker) Last() (job, sentence float64) { return t.job, t.sentence }

// Handle applies one pushed event.
func (t *Tracker) Handle(ev push.Event) {
	metrics.IncPushEvent()
	switch ev.Name {
	case push.EventProgress:
		t.progress(ev.Progress)
	case push.EventError:
		t.fail(ev.Error)
	}
}

func (t *Tracker) progress(p push.ProgressPayload) {
	t.job, t.sentence = p.JobProgress, p.SentenceProgress
	if t.latched {
		return
	}
	if t.state == Idle {
		t.state = Receiving
	}
	t.bar.Update(t.job, t.sentence)

	if t.job < 100 || t.sentence < 100 {
		return
	}
	t.latched = true
	t.state = Completed
	t.runSettle()
	t.bar.Complete()

	metrics.IncAnalysisCompleted()
	if !t.startedAt.IsZero() {
		metrics.ObserveAnalysisDurationMs(float64(t.s.Clock().Now().Sub(t.startedAt)) / float64(time.Millisecond))
	}
	telemetry.Info("analysis.completed", map[string]any{"redirect_in_ms": RedirectDelay.Milliseconds()})

	t.redirect = t.s.After(RedirectDelay, func() {
		if t.navigate != nil {
			t.navigate(ResultsPath)
		}
	})
}

func (t *Tracker) fail(p push.ErrorPayload) {
	msg := p.Message
	if msg == "" {
		msg = defaultErrorMessage
	}
	metrics.IncAnalysisFailed()
	telemetry.Warn("analysis.failed", map[string]any{"message": msg, "state": t.state.String()})

	if t.state != Completed {
		t.state = Idle
	}
	t.runSettle()
	t.bar.Hide()
	t.notifier.Show(view.LevelDanger, msg)
	t.submit.Restore(view.SubmitLabel)
}

func (t *Tracker) runSettle() {
	for _, fn := range t.settle {
		fn()
	}
}

// Pump feeds events into the tracker through the scheduler until the channel
// closes, ctx ends, or the scheduler is closed.
func (t *Tracker) Pump(ctx context.Context, events <-chan push.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || t.s.Closed() {
				return
			}
			t.s.Do(func() { t.Handle(ev) })
		}
	}
}
