package view

import "time"

// Count-up animation timing for score badges.
const (
	CountUpSteps   = 50
	CountUpTick    = 30 * time.Millisecond
	CountUpStagger = 200 * time.Millisecond
)

// CountUp yields the successive values a badge shows while counting up to target.
type CountUp struct {
	target  int
	current float64
	step    float64
	done    bool
}

// NewCountUp starts a count from zero.
func NewCountUp(target int) *CountUp {
	return &CountUp{target: target, step: float64(target) / CountUpSteps}
}

// Next advances one tick and returns the displayed value and whether the count finished.
func (c *CountUp) Next() (int, bool) {
	if c.done {
		return c.target, true
	}
	c.current += c.step
	if c.current >= float64(c.target) {
		c.current = float64(c.target)
		c.done = true
	}
	return Round(c.current), c.done
}

// Frames runs a count to completion.
func Frames(target int) []int {
	c := NewCountUp(target)
	var out []int
	for {
		v, done := c.Next()
		out = append(out, v)
		if done {
			return out
		}
	}
}
