package view

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/UtsavYadav1/CareerBERT/internal/chart"
	"github.com/UtsavYadav1/CareerBERT/internal/results"
)

const (
	DefaultJobTitle = "Job Analysis Results"
	maxJobTextLen   = 500
)

// Badge is a score badge keyed by its element id.
type Badge struct {
	ID    string
	Value int
	Text  string
	Color Level
}

// MeterBar is a horizontal score bar.
type MeterBar struct {
	ID    string
	Width int
	Tier  Level
}

// Line is a labelled text field.
type Line struct {
	ID   string
	Text string
}

// Header is the job title and excerpt.
type Header struct {
	Title string
	Text  string
}

// SectionPanel is one resume section. Exactly one of Placeholder, Tags or
// Paragraphs is set.
type SectionPanel struct {
	ID          string
	Name        string
	Placeholder string
	Tags        []string
	Paragraphs  []string
}

// Doughnut is the matched/missing split shown on the skills chart.
type Doughnut struct {
	Matched int
	Missing int
}

// ResultsPage is everything the results view shows.
type ResultsPage struct {
	Loaded          bool
	Badges          []Badge
	Bars            []MeterBar
	Breakdown       []Line
	Header          Header
	Sections        []SectionPanel
	Improvement     []SkillTag
	Recommendations RecommendationList
	Scores          chart.Scores
	Doughnut        Doughnut
}

// AnimatedBadges are the badges that count up after a render.
var AnimatedBadges = []string{"overallScoreBadge", "jobDescScoreBadge", "skillsScoreBadge"}

var sectionOrder = []struct{ id, key string }{
	{"educationContent", "education"},
	{"skillsContent", "skills"},
	{"experienceContent", "experience"},
	{"projectsContent", "projects"},
}

var skillSplit = regexp.MustCompile(`[,\n]`)

// PendingPage is the results view before any results are known.
func PendingPage() ResultsPage {
	scores := ChartScores(nil)
	return ResultsPage{
		Header:          Header{Title: DefaultJobTitle},
		Recommendations: RecommendationList{Placeholder: &Placeholder{Message: NoRecommendations, Guidance: NoRecommendationsAdvice}},
		Scores:          scores,
		Doughnut:        doughnut(scores.SkillsMatch),
	}
}

// BuildResultsPage builds the results view from a fetched results object.
func BuildResultsPage(r *results.Results, guard *BannerGuard) ResultsPage {
	overall := r.Overall.Or(0)
	job := r.JobMatch.Or(0)
	skills := r.SkillsMatch.Or(0)

	page := ResultsPage{Loaded: true}

	for _, b := range []struct {
		id string
		v  int
	}{
		{"overallScoreBadge", overall},
		{"jobDescScoreBadge", job},
		{"skillsScoreBadge", skills},
		{"overallMatchScore", overall},
		{"overallMatchPercentage", overall},
		{"jobMatchPercentage", job},
		{"skillsMatchPercentage", skills},
	} {
		page.Badges = append(page.Badges, Badge{ID: b.id, Value: b.v, Text: fmt.Sprintf("%d%%", b.v), Color: ScoreColor(b.v)})
	}

	page.Bars = []MeterBar{
		{ID: "overallMatchProgress", Width: overall, Tier: BarTier(overall)},
		{ID: "jobMatchProgress", Width: job, Tier: BarTier(job)},
		{ID: "skillsMatchProgress", Width: skills, Tier: BarTier(skills)},
	}

	page.Breakdown = []Line{
		{ID: "experienceScore", Text: fmt.Sprintf("Experience Relevance: %d%%", job)},
		{ID: "skillsScore", Text: fmt.Sprintf("Technical Fit: %d%%", skills)},
		{ID: "educationScore", Text: fmt.Sprintf("Background Match: %d%%", BackgroundMatch(overall))},
	}

	page.Header = Header{Title: r.JobTitle, Text: Truncate(r.JobText, maxJobTextLen)}
	if page.Header.Title == "" {
		page.Header.Title = DefaultJobTitle
	}

	page.Sections = ResumeSections(r.ResumeSections)
	page.Improvement = SkillTags(r.MissingSkills, SkillImprovement)
	page.Recommendations = Recommendations(r.Recommendations, r.RecMeta, guard)

	page.Scores = ChartScores(r)
	page.Doughnut = doughnut(page.Scores.SkillsMatch)
	return page
}

// BackgroundMatch is the derived education score, overall+10 clamped at 100.
func BackgroundMatch(overall int) int {
	return min(overall+10, 100)
}

// ChartScores picks chart values, falling back per field to the defaults.
func ChartScores(r *results.Results) chart.Scores {
	if r == nil {
		return chart.Scores{
			Overall:     results.DefaultOverall,
			JobMatch:    results.DefaultJobMatch,
			SkillsMatch: results.DefaultSkillsMatch,
		}
	}
	return chart.Scores{
		Overall:     r.Overall.Or(results.DefaultOverall),
		JobMatch:    r.JobMatch.Or(results.DefaultJobMatch),
		SkillsMatch: r.SkillsMatch.Or(results.DefaultSkillsMatch),
	}
}

func doughnut(matched int) Doughnut {
	return Doughnut{Matched: matched, Missing: chart.MissingShare(matched)}
}

// ResumeSections builds the four section panels from a section map.
func ResumeSections(sections map[string]string) []SectionPanel {
	panels := make([]SectionPanel, 0, len(sectionOrder))
	for _, s := range sectionOrder {
		text := sections[s.key]
		if text == "" {
			text = sections[capitalize(s.key)]
		}
		panels = append(panels, sectionPanel(s.id, s.key, text))
	}
	return panels
}

func sectionPanel(id, key, text string) SectionPanel {
	p := SectionPanel{ID: id, Name: capitalize(key)}
	if strings.TrimSpace(text) == "" || text == results.SectionNotFound {
		p.Placeholder = fmt.Sprintf("No %s information found", key)
		return p
	}
	if key == "skills" {
		for _, s := range skillSplit.Split(text, -1) {
			if s = strings.TrimSpace(s); s != "" {
				p.Tags = append(p.Tags, s)
			}
		}
		if len(p.Tags) > 0 {
			return p
		}
		p.Paragraphs = []string{text}
		return p
	}
	p.Paragraphs = strings.Split(text, "\n")
	return p
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
