package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/history"
	"github.com/UtsavYadav1/CareerBERT/internal/report"
	"github.com/UtsavYadav1/CareerBERT/internal/results"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object/local"
)

type fakeBackend struct {
	mu        sync.Mutex
	fetches   int
	results   results.Results
	fetchErr  error
	report    apiclient.Report
	reportErr error
}

func (f *fakeBackend) FetchResults(ctx context.Context) (results.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.results, f.fetchErr
}

func (f *fakeBackend) DownloadReport(ctx context.Context) (apiclient.Report, error) {
	return f.report, f.reportErr
}

func (f *fakeBackend) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newTestEngine(t *testing.T, backend *fakeBackend, repo history.Repo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewEngine(New(Deps{
		Results: backend,
		Reports: backend,
		Store:   local.New(t.TempDir()),
		History: repo,
	}))
}

func get(t *testing.T, r http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	return resp
}

func sampleResults() results.Results {
	return results.Results{
		Overall:     results.P(72),
		JobMatch:    results.P(68),
		SkillsMatch: results.P(75),
		JobTitle:    "Go Developer",
		Recommendations: []results.Recommendation{
			{Job: "Backend Engineer", Company: "Acme", Location: "Berlin", Link: "https://example.com/job"},
		},
		RecMeta: results.RecMeta{Source: results.SourceSerpAPI, Location: "Berlin"},
	}
}

func TestResultsPageRendersFetchedResults(t *testing.T) {
	backend := &fakeBackend{results: sampleResults()}
	r := newTestEngine(t, backend, nil)

	resp := get(t, r, http.MethodGet, "/results-page")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{"Go Developer", "Background Match: 82%", "Backend Engineer", report.DefaultLabel} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if backend.Fetches() != 1 {
		t.Fatalf("expected one fetch, got %d", backend.Fetches())
	}

	chartResp := get(t, r, http.MethodGet, "/charts/scoreChart")
	if chartResp.Code != http.StatusOK || !strings.Contains(chartResp.Body.String(), "Match Scores") {
		t.Fatalf("expected rendered score chart, got %d", chartResp.Code)
	}
	if get(t, r, http.MethodGet, "/charts/pieChart").Code != http.StatusOK {
		t.Fatalf("expected rendered doughnut")
	}
}

func TestResultsRouteDoesNotFetch(t *testing.T) {
	backend := &fakeBackend{results: sampleResults()}
	r := newTestEngine(t, backend, nil)

	resp := get(t, r, http.MethodGet, "/results")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if backend.Fetches() != 0 {
		t.Fatalf("plain results route must not fetch")
	}
	if strings.Contains(resp.Body.String(), "Background Match") {
		t.Fatalf("pending page must not show the breakdown")
	}
}

func TestResultsPageFetchFailureStillRendersCharts(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("down")}
	r := newTestEngine(t, backend, nil)

	if resp := get(t, r, http.MethodGet, "/results-page"); resp.Code != http.StatusOK {
		t.Fatalf("expected degraded page, got %d", resp.Code)
	}
	if backend.Fetches() != 3 {
		t.Fatalf("expected entry, load and retry fetches, got %d", backend.Fetches())
	}
	if get(t, r, http.MethodGet, "/charts/scoreChart").Code != http.StatusOK {
		t.Fatalf("expected default chart")
	}
}

func TestUnknownChart(t *testing.T) {
	r := newTestEngine(t, &fakeBackend{}, nil)
	if resp := get(t, r, http.MethodGet, "/charts/nope"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDownloadReportReturnsAttachment(t *testing.T) {
	backend := &fakeBackend{report: apiclient.Report{Body: []byte("%PDF-1.4"), ContentType: "application/pdf"}}
	r := newTestEngine(t, backend, nil)

	resp := get(t, r, http.MethodPost, "/download-report")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	disp := resp.Header().Get("Content-Disposition")
	if !strings.Contains(disp, report.FilePrefix) || !strings.HasSuffix(disp, `.pdf"`) {
		t.Fatalf("unexpected disposition %q", disp)
	}
	if resp.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
	if resp.Header().Get("X-Report-Location") == "" {
		t.Fatalf("expected archive location header")
	}
}

func TestDownloadReportFailure(t *testing.T) {
	backend := &fakeBackend{reportErr: &apiclient.StatusError{Op: "download-report", Status: 500}}
	r := newTestEngine(t, backend, nil)

	resp := get(t, r, http.MethodPost, "/download-report")
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), report.MsgFailed) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestHistoryHealthAndMetrics(t *testing.T) {
	repo := history.NewMemoryRepo()
	_ = repo.Create(context.Background(), history.NewEntry("s", "resume.pdf", sampleResults(), time.Now()))
	r := newTestEngine(t, &fakeBackend{}, repo)

	resp := get(t, r, http.MethodGet, "/history?limit=5")
	var payload struct {
		Entries []history.Entry `json:"entries"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(payload.Entries) != 1 || payload.Entries[0].Filename != "resume.pdf" {
		t.Fatalf("unexpected history %+v", payload.Entries)
	}

	if resp := get(t, r, http.MethodGet, "/health"); resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health %d %s", resp.Code, resp.Body.String())
	}
	if resp := get(t, r, http.MethodGet, "/metrics"); !strings.Contains(resp.Body.String(), "careerbert_") {
		t.Fatalf("expected metrics output")
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8090", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
