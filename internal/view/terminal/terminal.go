// Package terminal prints view models to a text stream, colouring tiers when
// the stream is a terminal.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

const barWidth = 30

var colors = map[view.Level]string{
	view.LevelSuccess: "\x1b[32m",
	view.LevelWarning: "\x1b[33m",
	view.LevelDanger:  "\x1b[31m",
	view.LevelInfo:    "\x1b[36m",
}

const reset = "\x1b[0m"

// Printer writes view models to w.
type Printer struct {
	w     io.Writer
	color bool
}

// New builds a printer; colour is enabled only when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{w: w, color: IsTerminal(w)}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *Printer) paint(level view.Level, s string) string {
	if !p.color {
		return s
	}
	c, ok := colors[level]
	if !ok {
		return s
	}
	return c + s + reset
}

// Alert prints a notification line.
func (p *Printer) Alert(level view.Level, message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(level, "["+strings.ToUpper(string(level))+"]"), message)
}

// Progress prints the upload bar on one line; on a terminal the line is redrawn in place.
func (p *Printer) Progress(bar *view.ProgressBar) {
	if !bar.Visible {
		return
	}
	filled := bar.Percent * barWidth / 100
	filled = max(0, min(filled, barWidth))
	line := fmt.Sprintf("[%s%s] %3d%% %s", strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled), bar.Percent, bar.Status)
	if bar.Style != "" {
		line = p.paint(bar.Style, line)
	}
	if p.color {
		fmt.Fprintf(p.w, "\r\x1b[2K%s", line)
		if bar.Style == view.LevelSuccess {
			fmt.Fprintln(p.w)
		}
		return
	}
	fmt.Fprintln(p.w, line)
}

// Counter prints the description length indicator.
func (p *Printer) Counter(c view.CharCounter) {
	fmt.Fprintln(p.w, p.paint(c.Level, c.Text))
}

// Results prints the whole results view.
func (p *Printer) Results(page view.ResultsPage) {
	fmt.Fprintf(p.w, "== %s ==\n", page.Header.Title)
	if page.Header.Text != "" {
		fmt.Fprintf(p.w, "%s\n", page.Header.Text)
	}
	fmt.Fprintln(p.w)

	if page.Loaded {
		for _, bar := range page.Bars {
			filled := max(0, min(bar.Width*barWidth/100, barWidth))
			fmt.Fprintf(p.w, "%-22s %s %d%%\n", bar.ID, p.paint(bar.Tier, strings.Repeat("█", filled)+strings.Repeat("░", barWidth-filled)), bar.Width)
		}
		for _, line := range page.Breakdown {
			fmt.Fprintf(p.w, "  %s\n", line.Text)
		}
	} else {
		fmt.Fprintf(p.w, "Compatibility Score %d%% | Experience Match %d%% | Technical Fit %d%%\n",
			page.Scores.Overall, page.Scores.JobMatch, page.Scores.SkillsMatch)
	}
	fmt.Fprintf(p.w, "Skills: %d%% matched, %d%% missing\n\n", page.Doughnut.Matched, page.Doughnut.Missing)

	for _, s := range page.Sections {
		fmt.Fprintf(p.w, "-- %s --\n", s.Name)
		switch {
		case s.Placeholder != "":
			fmt.Fprintf(p.w, "  %s\n", s.Placeholder)
		case len(s.Tags) > 0:
			fmt.Fprintf(p.w, "  [%s]\n", strings.Join(s.Tags, "] ["))
		default:
			for _, para := range s.Paragraphs {
				fmt.Fprintf(p.w, "  %s\n", para)
			}
		}
	}

	if len(page.Improvement) > 0 {
		fmt.Fprintln(p.w, "-- Areas for Improvement --")
		for _, tag := range page.Improvement {
			fmt.Fprintf(p.w, "  %s: %s\n", p.paint(view.LevelWarning, tag.Name), tag.Detail)
		}
	}

	p.Recommendations(page.Recommendations)
}

// Recommendations prints the recommendation list.
func (p *Printer) Recommendations(list view.RecommendationList) {
	fmt.Fprintln(p.w, "-- Job Recommendations --")
	if list.Placeholder != nil {
		fmt.Fprintf(p.w, "  %s\n  %s\n", list.Placeholder.Message, list.Placeholder.Guidance)
		return
	}
	if list.Banner != nil {
		fmt.Fprintf(p.w, "  %s\n", list.Banner.Text)
		if list.Banner.Tip != "" {
			fmt.Fprintf(p.w, "  %s\n", p.paint(view.LevelWarning, list.Banner.Tip))
		}
	}
	for _, item := range list.Items {
		fmt.Fprintf(p.w, "  * %s\n", item.Title)
		if item.Subtitle != "" {
			fmt.Fprintf(p.w, "    %s\n", item.Subtitle)
		}
		fmt.Fprintf(p.w, "    %s | %s\n", item.Score, item.Meta)
		if item.Link != "" {
			fmt.Fprintf(p.w, "    %s\n", item.Link)
		}
	}
}
