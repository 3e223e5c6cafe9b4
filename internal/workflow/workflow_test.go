package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/chart"
	"github.com/UtsavYadav1/CareerBERT/internal/history"
	"github.com/UtsavYadav1/CareerBERT/internal/push"
	"github.com/UtsavYadav1/CareerBERT/internal/queue"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object/local"
	"github.com/UtsavYadav1/CareerBERT/internal/view/terminal"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const resultsJSON = `{
  "overall": 72, "job_match": "68", "skills_match": 75,
  "job_title": "Go Developer", "job_text": "Build services",
  "missing_skills": ["Kubernetes"],
  "recommendations": [{"job": "Backend Engineer", "company": "Acme", "location": "Berlin", "score": 81}],
  "rec_meta": {"source": "serpapi", "location": "Berlin"}
}`

type backend struct {
	t       *testing.T
	frames  []push.Envelope
	started chan push.StartPayload
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"success": true, "filename": "stored_resume.txt"}`))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var env push.Envelope
		_ = json.Unmarshal(data, &env)
		var start push.StartPayload
		_ = json.Unmarshal(env.Data, &start)
		b.started <- start
		for _, f := range b.frames {
			if err := ws.WriteJSON(f); err != nil {
				return
			}
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resultsJSON))
	})
	mux.HandleFunc("/download-report", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 report"))
	})
	return mux
}

func frame(t *testing.T, event string, payload any) push.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return push.Envelope{Event: event, Data: data}
}

func newRunner(t *testing.T, b *backend) (*Runner, *syncBuffer, *history.MemoryRepo, *chart.MemorySurface) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	out := &syncBuffer{}
	repo := history.NewMemoryRepo()
	surface := chart.NewMemorySurface()
	return &Runner{
		Client:      client,
		PushURL:     "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		Store:       local.New(t.TempDir()),
		History:     repo,
		Surface:     surface,
		Out:         terminal.New(out),
		RenderEvery: 10 * time.Millisecond,
	}, out, repo, surface
}

func writeResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Jane Doe\nGo, SQL, Docker\n"), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	return path
}

func TestAnalyzeRunsThroughToResults(t *testing.T) {
	b := &backend{t: t, started: make(chan push.StartPayload, 1)}
	b.frames = []push.Envelope{
		frame(t, push.EventProgress, push.ProgressPayload{JobProgress: 40, SentenceProgress: 20}),
		frame(t, push.EventProgress, push.ProgressPayload{JobProgress: 100, SentenceProgress: 100}),
	}
	r, out, repo, surface := newRunner(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	outcome, err := r.Analyze(ctx, AnalyzeOptions{
		ResumePath:     writeResume(t),
		JobDescription: "Senior Go engineer",
		Location:       "Berlin",
		DownloadReport: true,
	})
	if err != nil {
		t.Fatalf("Analyze: %v\n%s", err, out.String())
	}

	start := <-b.started
	if start.Filename != "stored_resume.txt" || start.JobDescription != "Senior Go engineer" || start.Location != "Berlin" {
		t.Fatalf("unexpected start payload %+v", start)
	}
	if !outcome.Page.Loaded || outcome.Page.Breakdown[2].Text != "Background Match: 82%" {
		t.Fatalf("unexpected page %+v", outcome.Page.Breakdown)
	}
	if outcome.Entry == nil || outcome.Entry.Filename != "resume.txt" {
		t.Fatalf("expected history entry, got %+v", outcome.Entry)
	}
	entries, _ := repo.ListRecent(ctx, 10, 0)
	if len(entries) != 1 || *entries[0].JobMatch != 68 {
		t.Fatalf("unexpected history %+v", entries)
	}
	if outcome.Report == nil || !strings.HasSuffix(outcome.Report.Name, ".pdf") {
		t.Fatalf("expected saved report, got %+v", outcome.Report)
	}
	if _, ok := surface.Get(chart.ScoreCanvas); !ok {
		t.Fatalf("expected score chart on the surface")
	}
	text := out.String()
	for _, want := range []string{"File selected successfully", "18/5000 characters", "Analysis complete! Redirecting...", "Go Developer", "Report downloaded successfully!"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestAnalyzePushedErrorFails(t *testing.T) {
	b := &backend{t: t, started: make(chan push.StartPayload, 1)}
	b.frames = []push.Envelope{
		frame(t, push.EventProgress, push.ProgressPayload{JobProgress: 30}),
		frame(t, push.EventError, push.ErrorPayload{Message: "Could not parse resume"}),
	}
	r, out, repo, _ := newRunner(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := r.Analyze(ctx, AnalyzeOptions{ResumePath: writeResume(t), JobDescription: "Go"})
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if !strings.Contains(out.String(), "Could not parse resume") {
		t.Fatalf("expected pushed message in output:\n%s", out.String())
	}
	if entries, _ := repo.ListRecent(ctx, 10, 0); len(entries) != 0 {
		t.Fatalf("failed analysis must not be recorded")
	}
}

func TestResultsPageWithoutFetchUsesDefaults(t *testing.T) {
	b := &backend{t: t}
	r, _, repo, _ := newRunner(t, b)

	outcome, err := r.ResultsPage(context.Background(), "/results", "", false)
	if err != nil {
		t.Fatalf("ResultsPage: %v", err)
	}
	if outcome.Page.Loaded || outcome.Results != nil {
		t.Fatalf("plain results route must not load results")
	}
	if outcome.Page.Scores.Overall != 72 {
		t.Fatalf("expected default chart scores, got %+v", outcome.Page.Scores)
	}
	if entries, _ := repo.ListRecent(context.Background(), 10, 0); len(entries) != 0 {
		t.Fatalf("nothing should be recorded")
	}
}

func TestReport(t *testing.T) {
	r, _, _, _ := newRunner(t, &backend{t: t})
	saved, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if saved.Size != int64(len("%PDF-1.4 report")) {
		t.Fatalf("unexpected size %d", saved.Size)
	}
}

type recordingQueue struct {
	mu   sync.Mutex
	msgs []queue.Message
	err  error
}

func (q *recordingQueue) Send(ctx context.Context, msg queue.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func TestResultsPagePublishesRecordedEntry(t *testing.T) {
	r, _, _, _ := newRunner(t, &backend{t: t})
	events := &recordingQueue{}
	r.Events = events

	outcome, err := r.ResultsPage(context.Background(), "/results-page", "cv.pdf", false)
	if err != nil {
		t.Fatalf("ResultsPage: %v", err)
	}
	if outcome.Entry == nil {
		t.Fatalf("expected history entry")
	}
	if len(events.msgs) != 1 || events.msgs[0].EntryID != outcome.Entry.ID {
		t.Fatalf("unexpected published messages %+v", events.msgs)
	}
}

func TestPublishFailureKeepsEntry(t *testing.T) {
	r, _, repo, _ := newRunner(t, &backend{t: t})
	r.Events = &recordingQueue{err: errors.New("queue down")}

	outcome, err := r.ResultsPage(context.Background(), "/results-page", "cv.pdf", false)
	if err != nil {
		t.Fatalf("ResultsPage: %v", err)
	}
	if outcome.Entry == nil {
		t.Fatalf("entry must be recorded when publishing fails")
	}
	if entries, _ := repo.ListRecent(context.Background(), 10, 0); len(entries) != 1 {
		t.Fatalf("unexpected history %+v", entries)
	}
}
