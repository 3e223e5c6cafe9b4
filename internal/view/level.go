// Package view builds toolkit-neutral descriptions of what the client shows.
//
// Every builder here is a pure function of its inputs. Adapters in the
// terminal and webview subpackages turn these models into output.
package view

import "math"

// Level is a visual tier shared by alerts, bars and badges.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
	LevelInfo    Level = "info"
)

// BarTier classifies a meter bar: >=70 success, >=50 warning, else danger.
func BarTier(percent int) Level {
	switch {
	case percent >= 70:
		return LevelSuccess
	case percent >= 50:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// ScoreColor classifies a score badge: >=80 success, >=60 warning, else danger.
func ScoreColor(score int) Level {
	switch {
	case score >= 80:
		return LevelSuccess
	case score >= 60:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// Round rounds half up, so 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
