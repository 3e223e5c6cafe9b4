package chart

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

var (
	barLabels = []string{"Compatibility Score", "Experience Match", "Technical Fit"}
	barColors = []string{"#2563EB", "#9333EA", "#10B981"}
)

const (
	matchedColor = "#10B981"
	missingColor = "#E5E7EB"
)

// instance is a chart currently painted on a canvas.
type instance struct {
	canvas    string
	kind      string
	surface   Surface
	destroyed bool
}

func (i *instance) destroy() error {
	if i.destroyed {
		return nil
	}
	i.destroyed = true
	return i.surface.Remove(i.canvas)
}

// pieHook runs after the doughnut's series are laid out, before the chart is emitted.
type pieHook func(p *charts.Pie)

// Echarts implements Adapter with go-echarts, emitting one standalone HTML document per canvas.
type Echarts struct {
	mu      sync.Mutex
	surface Surface
	live    map[string]*instance
	width   string
	height  string
}

// NewEcharts builds an adapter painting onto surface.
func NewEcharts(surface Surface) *Echarts {
	return &Echarts{
		surface: surface,
		live:    make(map[string]*instance),
		width:   "640px",
		height:  "320px",
	}
}

// RenderBarScores draws the three match scores on a fixed 0-100 axis.
func (e *Echarts) RenderBarScores(canvas string, scores Scores) error {
	if canvas == "" {
		return ErrEmptyCanvas
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.destroyLocked(canvas); err != nil {
		return err
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: canvas, Width: e.width, Height: e.height}),
		charts.WithTitleOpts(opts.Title{Title: "Match Scores"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, AxisLabel: &opts.AxisLabel{Formatter: "{value}%"}}),
	)

	values := []int{scores.Overall, scores.JobMatch, scores.SkillsMatch}
	data := make([]opts.BarData, 0, len(values))
	for i, v := range values {
		data = append(data, opts.BarData{
			Name:      fmt.Sprintf("%s: %d%% (%s)", barLabels[i], v, QualityLabel(v)),
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: barColors[i]},
		})
	}
	bar.SetXAxis(barLabels).AddSeries("Match Score", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return fmt.Errorf("render bar chart canvas=%s: %w", canvas, err)
	}
	return e.paintLocked(canvas, "bar", buf.Bytes())
}

// RenderSkillsDoughnut draws matched vs missing skills with a centre label.
func (e *Echarts) RenderSkillsDoughnut(canvas string, matched int) error {
	if canvas == "" {
		return ErrEmptyCanvas
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.destroyLocked(canvas); err != nil {
		return err
	}

	missing := MissingShare(matched)
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: canvas, Width: e.width, Height: e.height}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Bottom: "0"}),
	)
	pie.AddSeries("Skills", []opts.PieData{
		{Name: fmt.Sprintf("Matched Skills (%d%%)", matched), Value: matched, ItemStyle: &opts.ItemStyle{Color: matchedColor}},
		{Name: fmt.Sprintf("Missing Skills (%d%%)", missing), Value: missing, ItemStyle: &opts.ItemStyle{Color: missingColor}},
	}, charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "65%"}}))

	for _, hook := range []pieHook{centerLabel(matched)} {
		hook(pie)
	}

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return fmt.Errorf("render doughnut chart canvas=%s: %w", canvas, err)
	}
	return e.paintLocked(canvas, "doughnut", buf.Bytes())
}

// Live reports how many canvases currently hold a chart.
func (e *Echarts) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Destroy removes every live chart.
func (e *Echarts) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for canvas := range e.live {
		_ = e.destroyLocked(canvas)
	}
}

func (e *Echarts) destroyLocked(canvas string) error {
	inst, ok := e.live[canvas]
	if !ok {
		return nil
	}
	delete(e.live, canvas)
	if err := inst.destroy(); err != nil {
		return fmt.Errorf("destroy %s chart canvas=%s: %w", inst.kind, canvas, err)
	}
	return nil
}

func (e *Echarts) paintLocked(canvas, kind string, page []byte) error {
	if err := e.surface.Put(canvas, page); err != nil {
		return fmt.Errorf("paint %s chart canvas=%s: %w", kind, canvas, err)
	}
	e.live[canvas] = &instance{canvas: canvas, kind: kind, surface: e.surface}
	telemetry.Debug("chart.rendered", map[string]any{"canvas": canvas, "kind": kind, "bytes": len(page)})
	return nil
}

func centerLabel(matched int) pieHook {
	return func(p *charts.Pie) {
		p.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%d%%", matched),
			Subtitle: "Skills Match",
			Left:     "center",
			Top:      "center",
		}))
	}
}
