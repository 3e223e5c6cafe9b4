// Package report downloads the generated analysis report and archives it.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/metrics"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/util"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

const (
	FilePrefix   = "CareerBERT_Report_"
	DefaultLabel = "Download Report"
	BusyLabel    = "Generating..."
	MsgSaved     = "Report downloaded successfully!"
	MsgFailed    = "Failed to generate report. Please try again."
)

// ErrBusy is returned when a download is already running.
var ErrBusy = errors.New("report: download already in progress")

// Fetcher reads the report body.
type Fetcher interface {
	DownloadReport(ctx context.Context) (apiclient.Report, error)
}

// Saved describes an archived report.
type Saved struct {
	Name        string
	Key         string
	Location    string
	ContentType string
	Size        int64
}

// Filename names a report downloaded at t, e.g. CareerBERT_Report_2024-05-01T10-20-30.pdf.
func Filename(t time.Time, ext string) string {
	return FilePrefix + util.Stamp(t) + ext
}

type controlState struct {
	c        *view.Control
	label    string
	disabled bool
}

// Downloader runs the report download for the controls bound to it.
type Downloader struct {
	s         *sched.Scheduler
	notifier  *alerts.Notifier
	fetcher   Fetcher
	store     object.Store
	sessionID string

	controls []*view.Control
	busy     bool
}

// NewDownloader wires a downloader that archives into store under the session's directory.
func NewDownloader(s *sched.Scheduler, notifier *alerts.Notifier, fetcher Fetcher, store object.Store, sessionID string) *Downloader {
	return &Downloader{s: s, notifier: notifier, fetcher: fetcher, store: store, sessionID: sessionID}
}

// Bind attaches trigger controls.
func (d *Downloader) Bind(controls ...*view.Control) {
	d.s.Do(func() { d.controls = append(d.controls, controls...) })
}

// NewControl returns an idle download trigger.
func NewControl(id string) *view.Control {
	return &view.Control{ID: id, Label: DefaultLabel}
}

// Trigger fetches and saves the report. Every bound control is restored to
// its previous label and enabled state whatever the outcome.
func (d *Downloader) Trigger(ctx context.Context) (Saved, error) {
	var (
		saved   []controlState
		already bool
		now     time.Time
	)
	d.s.Do(func() {
		if d.busy {
			already = true
			return
		}
		d.busy = true
		now = d.s.Clock().Now()
		for _, c := range d.controls {
			saved = append(saved, controlState{c: c, label: c.Label, disabled: c.Disabled})
			c.Busy(BusyLabel)
		}
	})
	if already {
		return Saved{}, ErrBusy
	}

	out, err := d.download(ctx, now)

	d.s.Do(func() {
		for _, st := range saved {
			st.c.Label = st.label
			st.c.Disabled = st.disabled
		}
		d.busy = false
		if err != nil {
			d.notifier.Show(view.LevelDanger, MsgFailed)
			return
		}
		d.notifier.Show(view.LevelSuccess, MsgSaved)
	})

	if err != nil {
		metrics.IncReportFailed()
		telemetry.Error("report.failed", map[string]any{"session_id": d.sessionID, "error": err})
		return Saved{}, err
	}
	metrics.IncReportSaved()
	telemetry.Info("report.saved", map[string]any{
		"session_id": d.sessionID,
		"name":       out.Name,
		"location":   out.Location,
		"bytes":      out.Size,
	})
	return out, nil
}

func (d *Downloader) download(ctx context.Context, now time.Time) (Saved, error) {
	rep, err := d.fetcher.DownloadReport(ctx)
	if err != nil {
		return Saved{}, fmt.Errorf("download report: %w", err)
	}
	name := Filename(now, rep.Ext())
	key, err := util.ArchiveKey(d.sessionID, name)
	if err != nil {
		return Saved{}, fmt.Errorf("archive key: %w", err)
	}
	n, err := d.store.Put(ctx, key, rep.ContentType, bytes.NewReader(rep.Body))
	if err != nil {
		return Saved{}, fmt.Errorf("save report: %w", err)
	}
	return Saved{
		Name:        name,
		Key:         key,
		Location:    d.store.Location(key),
		ContentType: rep.ContentType,
		Size:        n,
	}, nil
}
