package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOrderMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.ObserveSubmit("submit", 250*time.Millisecond)
	m.IncSubmission("submit", "ok")
	m.IncSubmission("submit", "error")
	m.IncTransition("CONFIRMED")

	if got := testutil.ToFloat64(m.submissions.WithLabelValues("submit", "ok")); got != 1 {
		t.Fatalf("expected ok submissions 1, got %f", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("submit", "error")); got != 1 {
		t.Fatalf("expected error submissions 1, got %f", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("CONFIRMED")); got != 1 {
		t.Fatalf("expected one transition, got %f", got)
	}

	count, err := testutil.GatherAndCount(reg, "order_submit_duration_seconds")
	if err != nil {
		t.Fatalf("gather histogram: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one histogram series, got %d", count)
	}
}

func TestOrderMetricsNilSafe(t *testing.T) {
	var m *OrderMetrics

	// no registerer and nil receivers must both be no-ops
	m.ObserveSubmit("submit", time.Second)
	m.IncSubmission("submit", "ok")
	m.IncTransition("CONFIRMED")

	unregistered := NewOrderMetrics(nil)
	unregistered.IncSubmission("submit", "ok")
	unregistered.IncTransition("DELIVERED")
}

func TestNormalizeLabel(t *testing.T) {
	if got := normalizeLabel(""); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got := normalizeLabel("submit"); got != "submit" {
		t.Fatalf("expected submit, got %q", got)
	}
}
