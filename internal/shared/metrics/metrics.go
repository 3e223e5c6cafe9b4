package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	uploadsStartedTotal   atomic.Uint64
	uploadsFailedTotal    atomic.Uint64
	pushEventsTotal       atomic.Uint64
	analysesCompleted     atomic.Uint64
	analysesFailedTotal   atomic.Uint64
	resultsFetchedTotal   atomic.Uint64
	resultsFetchFailed    atomic.Uint64
	reportsSavedTotal     atomic.Uint64
	reportsFailedTotal    atomic.Uint64
	validationErrorsTotal atomic.Uint64

	analysisDuration = newHistogram([]float64{1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000})
)

// IncUploadStarted counts an upload that passed validation.
func IncUploadStarted() { uploadsStartedTotal.Add(1) }

// IncUploadFailed counts a failed or rejected upload.
func IncUploadFailed() { uploadsFailedTotal.Add(1) }

// IncValidationError counts a submission blocked before any request.
func IncValidationError() { validationErrorsTotal.Add(1) }

// IncPushEvent counts a received push event.
func IncPushEvent() { pushEventsTotal.Add(1) }

// IncAnalysisCompleted counts a completion latch firing.
func IncAnalysisCompleted() { analysesCompleted.Add(1) }

// IncAnalysisFailed counts a pushed error event.
func IncAnalysisFailed() { analysesFailedTotal.Add(1) }

// IncResultsFetched counts a successful results fetch.
func IncResultsFetched() { resultsFetchedTotal.Add(1) }

// IncResultsFetchFailed counts a failed results fetch.
func IncResultsFetchFailed() { resultsFetchFailed.Add(1) }

// IncReportSaved counts a saved report.
func IncReportSaved() { reportsSavedTotal.Add(1) }

// IncReportFailed counts a failed report download.
func IncReportFailed() { reportsFailedTotal.Add(1) }

// ObserveAnalysisDurationMs records upload-to-completion time in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "careerbert_uploads_started_total", "Uploads sent to the backend", uploadsStartedTotal.Load())
	writeCounter(&buf, "careerbert_uploads_failed_total", "Uploads that failed or were rejected", uploadsFailedTotal.Load())
	writeCounter(&buf, "careerbert_validation_errors_total", "Submissions blocked by client-side validation", validationErrorsTotal.Load())
	writeCounter(&buf, "careerbert_push_events_total", "Push channel events received", pushEventsTotal.Load())
	writeCounter(&buf, "careerbert_analyses_completed_total", "Analyses that reached completion", analysesCompleted.Load())
	writeCounter(&buf, "careerbert_analyses_failed_total", "Analyses aborted by a pushed error", analysesFailedTotal.Load())
	writeCounter(&buf, "careerbert_results_fetched_total", "Successful results fetches", resultsFetchedTotal.Load())
	writeCounter(&buf, "careerbert_results_fetch_failed_total", "Failed results fetches", resultsFetchFailed.Load())
	writeCounter(&buf, "careerbert_reports_saved_total", "Reports saved", reportsSavedTotal.Load())
	writeCounter(&buf, "careerbert_reports_failed_total", "Report downloads that failed", reportsFailedTotal.Load())
	writeHistogram(&buf, "careerbert_analysis_duration_ms", "Upload to completion time in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Since returns the milliseconds elapsed since start.
func Since(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
