package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncAnalysisStarted()
	IncAnalysisCompleted()
	IncAnalysisFailed("parse")
	IncAnalysisFailed("")
	ObserveAnalysisDurationMs(320)
	ObserveAnalysisDurationMs(-5)

	out := Render()

	for _, want := range []string{
		"# TYPE analysis_started_total counter",
		"analysis_completed_total ",
		`analysis_failed_total{kind="parse"}`,
		`analysis_failed_total{kind="unknown"}`,
		`analysis_duration_ms_bucket{le="500"}`,
		`analysis_duration_ms_bucket{le="+Inf"}`,
		"analysis_duration_ms_count ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if AnalysisFailed("parse") == 0 {
		t.Fatalf("expected parse failures to be counted")
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("expected sum 555, got %v", snap.sum)
	}
}
