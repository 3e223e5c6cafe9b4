package page

import (
	"context"
	"sync"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/chart"
	"github.com/UtsavYadav1/CareerBERT/internal/results"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/metrics"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

// Results page timing.
const (
	ChartDelay = 100 * time.Millisecond
	RetryDelay = 300 * time.Millisecond
)

// Fetcher reads the results object.
type Fetcher interface {
	FetchResults(ctx context.Context) (results.Results, error)
}

// Presenter applies results view models to a concrete output.
type Presenter interface {
	Present(page view.ResultsPage)
	Badge(id string, value int)
}

// ResultsController runs the results page for one session.
type ResultsController struct {
	sess      *Session
	fetcher   Fetcher
	charts    chart.Adapter
	presenter Presenter

	hooks    []func(results.Results)
	inflight sync.WaitGroup
}

// NewResultsController wires a results page.
func NewResultsController(sess *Session, fetcher Fetcher, charts chart.Adapter, presenter Presenter) *ResultsController {
	return &ResultsController{sess: sess, fetcher: fetcher, charts: charts, presenter: presenter}
}

// OnResults registers fn to run, inside the scheduler, after each successful fetch.
func (c *ResultsController) OnResults(fn func(results.Results)) {
	c.hooks = append(c.hooks, fn)
}

// Enter runs the content-loaded step: the pending view, default charts after
// ChartDelay and, on the fetching route, the first fetch.
func (c *ResultsController) Enter(ctx context.Context) {
	route := c.sess.Route
	if route == RouteUpload {
		return
	}
	c.sess.Sched.Do(func() {
		c.presenter.Present(view.PendingPage())
		c.sess.Sched.After(ChartDelay, c.renderCharts)
	})
	if route == RouteResultsPage {
		c.fetch(ctx)
	}
}

// Loaded runs the load step: when nothing is cached, fetch again and retry
// once after RetryDelay; otherwise only refresh the charts at that point.
func (c *ResultsController) Loaded(ctx context.Context) {
	if c.sess.Route != RouteResultsPage {
		return
	}
	var cached bool
	c.sess.Sched.Do(func() { cached = c.sess.Cached() != nil })
	if cached {
		return
	}

	c.fetch(ctx)
	c.sess.Sched.Do(func() {
		c.sess.Sched.After(RetryDelay, func() {
			if c.sess.Cached() == nil {
				c.fetch(ctx)
				return
			}
			c.renderCharts()
		})
	})
}

// Wait blocks until every started fetch has been applied.
func (c *ResultsController) Wait() {
	c.inflight.Wait()
}

// fetch starts one fetch; the network call runs off the scheduler and the
// outcome is applied through it.
func (c *ResultsController) fetch(ctx context.Context) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		r, err := c.fetcher.FetchResults(ctx)
		c.sess.Sched.Do(func() {
			if err != nil {
				metrics.IncResultsFetchFailed()
				telemetry.Error("results.fetch_failed", map[string]any{"session_id": c.sess.ID, "error": err})
				c.renderCharts()
				return
			}
			metrics.IncResultsFetched()
			c.apply(r)
		})
	}()
}

func (c *ResultsController) apply(r results.Results) {
	c.sess.Cache(r)
	page := view.BuildResultsPage(c.sess.Cached(), c.sess.Guard)
	c.presenter.Present(page)
	c.animateBadges(page)
	c.renderCharts()
	for _, hook := range c.hooks {
		hook(r)
	}
}

func (c *ResultsController) renderCharts() {
	scores := view.ChartScores(c.sess.Cached())
	if err := c.charts.RenderBarScores(chart.ScoreCanvas, scores); err != nil {
		telemetry.Error("chart.bar_failed", map[string]any{"session_id": c.sess.ID, "error": err})
	}
	if err := c.charts.RenderSkillsDoughnut(chart.PieCanvas, scores.SkillsMatch); err != nil {
		telemetry.Error("chart.doughnut_failed", map[string]any{"session_id": c.sess.ID, "error": err})
	}
}

func (c *ResultsController) animateBadges(page view.ResultsPage) {
	targets := make(map[string]int, len(page.Badges))
	for _, b := range page.Badges {
		targets[b.ID] = b.Value
	}
	s := c.sess.Sched
	for i, id := range view.AnimatedBadges {
		id := id // per-iteration copy (pre-Go 1.22 loop semantics)
		target, ok := targets[id]
		if !ok {
			continue
		}
		s.After(time.Duration(i)*view.CountUpStagger, func() {
			count := view.NewCountUp(target)
			var tick *sched.Task
			tick = s.Every(view.CountUpTick, func() {
				v, done := count.Next()
				c.presenter.Badge(id, v)
				if done {
					tick.Cancel()
				}
			})
		})
	}
}
