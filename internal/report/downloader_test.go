package report

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object/local"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

type fixture struct {
	d     *Downloader
	rec   *alerts.Recorder
	store *local.Store
	s     *sched.Scheduler
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	clock := sched.NewManualClock(time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC))
	s := sched.New(clock)
	t.Cleanup(s.Close)
	rec := &alerts.Recorder{}
	store := local.New(t.TempDir())
	return &fixture{
		d:     NewDownloader(s, alerts.New(s, rec), client, store, "sess-1"),
		rec:   rec,
		store: store,
		s:     s,
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 20, 30, 123, time.UTC)
	if got := Filename(ts, ".pdf"); got != "CareerBERT_Report_2024-05-01T10-20-30.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestTriggerSavesPDF(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download-report" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 report"))
	})
	a, b := NewControl("downloadReportBtn"), NewControl("downloadReportBtn2")
	f.d.Bind(a, b)

	saved, err := f.d.Trigger(context.Background())
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if saved.Name != "CareerBERT_Report_2024-05-01T10-20-30.pdf" {
		t.Fatalf("unexpected name %q", saved.Name)
	}
	rc, err := f.store.Open(context.Background(), saved.Key)
	if err != nil {
		t.Fatalf("open saved report: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "%PDF-1.4 report" {
		t.Fatalf("unexpected saved body %q", body)
	}
	for _, c := range []*view.Control{a, b} {
		if c.Disabled || c.Label != DefaultLabel {
			t.Fatalf("control %s not restored: %+v", c.ID, c)
		}
	}
	last, _ := f.rec.Last()
	if last.Level != view.LevelSuccess || last.Message != MsgSaved {
		t.Fatalf("unexpected alert %+v", last)
	}
}

func TestTriggerTextFallback(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("plain report"))
	})
	saved, err := f.d.Trigger(context.Background())
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !strings.HasSuffix(saved.Name, ".txt") {
		t.Fatalf("expected .txt report, got %q", saved.Name)
	}
}

func TestNon2xxRestoresControls(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	custom := &view.Control{ID: "reportLink", Label: "Get PDF"}
	disabled := &view.Control{ID: "other", Label: "Download Report", Disabled: true}
	f.d.Bind(custom, disabled)

	_, err := f.d.Trigger(context.Background())
	if !errors.Is(err, apiclient.ErrStatus) {
		t.Fatalf("expected status error, got %v", err)
	}
	if custom.Label != "Get PDF" || custom.Disabled {
		t.Fatalf("custom control not restored: %+v", custom)
	}
	if !disabled.Disabled || disabled.Label != "Download Report" {
		t.Fatalf("disabled control must stay disabled: %+v", disabled)
	}
	last, _ := f.rec.Last()
	if last.Level != view.LevelDanger || last.Message != MsgFailed {
		t.Fatalf("unexpected alert %+v", last)
	}
}

func TestControlsBusyDuringFetch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte("%PDF"))
	})
	c := NewControl("downloadReportBtn")
	f.d.Bind(c)

	done := make(chan error, 1)
	go func() {
		_, err := f.d.Trigger(context.Background())
		done <- err
	}()
	<-entered

	var label string
	var disabled bool
	f.s.Do(func() { label, disabled = c.Label, c.Disabled })
	if label != BusyLabel || !disabled {
		t.Fatalf("expected busy control, got %q disabled=%v", label, disabled)
	}
	if _, err := f.d.Trigger(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if c.Label != DefaultLabel || c.Disabled {
		t.Fatalf("control not restored: %+v", c)
	}
}
