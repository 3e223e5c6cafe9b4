package view

import (
	"strconv"
	"strings"

	"github.com/UtsavYadav1/CareerBERT/internal/results"
)

const (
	NoRecommendations       = "No specific job recommendations available at this time."
	NoRecommendationsAdvice = "Try uploading a different resume or job description for more targeted results."
	FallbackTip             = "Tip: Add a Location and set SERPAPI_KEY to get localized apply links."

	maxTitleLen = 140
)

// Placeholder is an empty-state message with guidance.
type Placeholder struct {
	Message  string
	Guidance string
}

// Banner describes where the recommendations came from.
type Banner struct {
	Text string
	Tip  string
}

// RecommendationItem is one rendered job posting.
type RecommendationItem struct {
	Title    string
	Subtitle string
	Score    string
	Meta     string
	Link     string
	Target   string
}

// RecommendationList is either a placeholder or a (banner, items) pair.
type RecommendationList struct {
	Placeholder *Placeholder
	Banner      *Banner
	Items       []RecommendationItem
}

// BannerGuard lets the metadata banner render once per results view.
type BannerGuard struct {
	rendered bool
}

// Claim returns true the first time it is called.
func (g *BannerGuard) Claim() bool {
	if g == nil {
		return true
	}
	if g.rendered {
		return false
	}
	g.rendered = true
	return true
}

// Rendered reports whether the banner has been shown.
func (g *BannerGuard) Rendered() bool { return g != nil && g.rendered }

// Recommendations builds the recommendation list. The banner is included
// only when guard has not been claimed yet.
func Recommendations(recs []results.Recommendation, meta results.RecMeta, guard *BannerGuard) RecommendationList {
	if len(recs) == 0 {
		return RecommendationList{Placeholder: &Placeholder{Message: NoRecommendations, Guidance: NoRecommendationsAdvice}}
	}

	var list RecommendationList
	if guard.Claim() {
		list.Banner = buildBanner(meta)
	}
	list.Items = make([]RecommendationItem, 0, len(recs))
	for _, rec := range recs {
		list.Items = append(list.Items, buildItem(rec))
	}
	return list
}

func buildBanner(meta results.RecMeta) *Banner {
	src := "Fallback results"
	if meta.Source == results.SourceSerpAPI {
		src = "Live jobs (SerpAPI)"
	}
	b := &Banner{Text: src}
	if meta.Location != "" {
		b.Text += " • " + meta.Location
	}
	if meta.Source == results.SourceFallback {
		b.Tip = FallbackTip
	}
	return b
}

func buildItem(rec results.Recommendation) RecommendationItem {
	item := RecommendationItem{
		Title: Truncate(rec.Job, maxTitleLen),
		Score: "Score: N/A",
		Meta:  "Full-time • Remote",
	}

	company := strings.TrimSpace(rec.Company)
	location := strings.TrimSpace(rec.Location)
	sep := ""
	if rec.Company != "" && rec.Location != "" {
		sep = " • "
	}
	item.Subtitle = company + sep + location

	if rec.Score != nil && rec.Score.Valid {
		item.Score = "Score: " + strconv.Itoa(rec.Score.Value)
	}
	if rec.Link != "" {
		item.Link = rec.Link
		item.Target = "_blank"
	}
	return item
}
