package view

import "fmt"

// Status texts shown under the upload progress bar.
const (
	StatusUploading  = "Uploading and parsing resume..."
	StatusAnalyzing  = "Analyzing job description..."
	StatusScoring    = "Calculating similarity scores..."
	StatusFinalizing = "Finalizing results..."
	StatusComplete   = "Analysis complete! Redirecting..."
)

// Submit control labels.
const (
	SubmitLabel     = "Analyze Resume"
	SubmitBusyLabel = "Analyzing..."
)

// MergePercent combines job and sentence progress into the displayed value.
func MergePercent(job, sentence float64) int {
	return Round((job + sentence) / 2)
}

// StatusText maps a merged percentage to its status line.
func StatusText(percent int) string {
	switch {
	case percent < 30:
		return StatusUploading
	case percent < 60:
		return StatusAnalyzing
	case percent < 90:
		return StatusScoring
	default:
		return StatusFinalizing
	}
}

// ProgressBar is the upload progress display.
type ProgressBar struct {
	Visible  bool
	Percent  int
	Animated bool
	Style    Level
	Status   string
}

// NewProgressBar returns a hidden, animated bar.
func NewProgressBar() *ProgressBar {
	return &ProgressBar{Animated: true}
}

// Show reveals the bar.
func (p *ProgressBar) Show() { p.Visible = true }

// Hide conceals the bar and rewinds it to zero.
func (p *ProgressBar) Hide() {
	p.Visible = false
	p.Percent = 0
}

// Update writes a progress pair; the last write wins.
func (p *ProgressBar) Update(job, sentence float64) {
	p.Percent = MergePercent(job, sentence)
	p.Status = StatusText(p.Percent)
}

// Complete pins the bar at 100% in the success style.
func (p *ProgressBar) Complete() {
	p.Percent = 100
	p.Animated = false
	p.Style = LevelSuccess
	p.Status = StatusComplete
}

// Control is a button-like trigger.
type Control struct {
	ID       string
	Label    string
	Disabled bool
}

// NewSubmitControl returns the idle submit control.
func NewSubmitControl() *Control {
	return &Control{ID: "submitBtn", Label: SubmitLabel}
}

// Busy disables the control under a busy label.
func (c *Control) Busy(label string) {
	c.Disabled = true
	c.Label = label
}

// Restore enables the control under label.
func (c *Control) Restore(label string) {
	c.Disabled = false
	c.Label = label
}

// CharCounter describes the job description length indicator.
type CharCounter struct {
	Text  string
	Level Level
}

// Count builds the counter for length characters out of max.
func Count(length, max int) CharCounter {
	c := CharCounter{Text: fmt.Sprintf("%d/%d characters", length, max)}
	switch {
	case length > max:
		c.Level = LevelDanger
	case float64(length) > float64(max)*0.9:
		c.Level = LevelWarning
	}
	return c
}
