// Package webview renders view models as HTML for the preview server.
package webview

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// ResultsTemplate is the template name of the results page.
const ResultsTemplate = "results.html"

// Data is the results page template input.
type Data struct {
	Page      view.ResultsPage
	Alert     *alerts.Alert
	ChartBase string
	Downloads []view.Control
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	t, err := template.New("careerbert").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// MustTemplates is Templates for package-level wiring.
func MustTemplates() *template.Template {
	t, err := Templates()
	if err != nil {
		panic(err)
	}
	return t
}

// Render writes the results page to w.
func Render(w io.Writer, data Data) error {
	t, err := Templates()
	if err != nil {
		return err
	}
	if data.ChartBase == "" {
		data.ChartBase = "/charts"
	}
	return t.ExecuteTemplate(w, ResultsTemplate, data)
}
