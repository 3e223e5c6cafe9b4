// Package chart draws the results charts behind a small adapter so the
// charting library can be swapped without touching the renderers.
package chart

import "errors"

// Canvas identifiers used by the results page.
const (
	ScoreCanvas = "scoreChart"
	PieCanvas   = "pieChart"
)

// ErrEmptyCanvas is returned when a render targets no canvas.
var ErrEmptyCanvas = errors.New("chart: empty canvas id")

// Scores are the three match percentages shown on the bar chart.
type Scores struct {
	Overall     int
	JobMatch    int
	SkillsMatch int
}

// Adapter renders the two results charts. Each call replaces the live chart
// bound to the canvas.
type Adapter interface {
	RenderBarScores(canvas string, scores Scores) error
	RenderSkillsDoughnut(canvas string, matched int) error
}

// QualityLabel is the tooltip annotation for a score band.
func QualityLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent match!"
	case score >= 70:
		return "Good match"
	case score >= 60:
		return "Fair match"
	default:
		return "Room for improvement"
	}
}

// MissingShare is the doughnut's complement segment, floored at zero.
func MissingShare(matched int) int {
	if matched >= 100 {
		return 0
	}
	return 100 - matched
}
