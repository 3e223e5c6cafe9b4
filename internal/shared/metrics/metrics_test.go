package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("each value belongs to one bucket: %v", snap.counts)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncUploadStarted()
	IncReportFailed()
	ObserveAnalysisDurationMs(1500)

	out := Render()
	for _, want := range []string{
		"# TYPE careerbert_uploads_started_total counter",
		"careerbert_reports_failed_total",
		`careerbert_analysis_duration_ms_bucket{le="2500"}`,
		`careerbert_analysis_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
