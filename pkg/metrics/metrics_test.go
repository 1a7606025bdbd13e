package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/viewlets/internal/errors"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRender("x", nil)
	m.ObserveRender("c", 1)
	m.RecordSlotFill("s")
	m.RecordEviction("s")
	m.RecordMissingSlot("s")
	m.RecordUpdate("x")
	m.RecordConflict("x")
	m.RecordBind()
	m.RecordUnbind()
	m.RecordContainerRender()
	m.RecordContainerDestroy()
	m.RecordSessionCreate()
	m.RecordSessionDestroy()
	m.RecordWebSocketError("read")
}

func TestRecordRender(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRender("details", nil)
	m.RecordRender("details", errors.New("V031"))
	m.RecordRender("details", fmt.Errorf("boom"))

	if got := testutil.ToFloat64(m.renders.WithLabelValues("details")); got != 3 {
		t.Errorf("renders = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.renderErrors.WithLabelValues("details", "V031")); got != 1 {
		t.Errorf("V031 errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.renderErrors.WithLabelValues("details", "internal")); got != 1 {
		t.Errorf("internal errors = %v, want 1", got)
	}
}

func TestSlotCounters(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordSlotFill("main")
	m.RecordSlotFill("main")
	m.RecordEviction("main")
	m.RecordMissingSlot("side")

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"fills", m.slotFills.WithLabelValues("main"), 2},
		{"evictions", m.evictions.WithLabelValues("main"), 1},
		{"missing", m.missingSlots.WithLabelValues("side"), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGauges(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordBind()
	m.RecordBind()
	m.RecordUnbind()
	m.RecordContainerRender()
	m.RecordSessionCreate()
	m.RecordSessionDestroy()

	if got := testutil.ToFloat64(m.boundViewlets); got != 1 {
		t.Errorf("bound = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.containers); got != 1 {
		t.Errorf("containers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sessions); got != 0 {
		t.Errorf("sessions = %v, want 0", got)
	}
}

func TestCode(t *testing.T) {
	wrapped := fmt.Errorf("render: %w", errors.New("V020"))
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("V030"), "V030"},
		{wrapped, "V020"},
		{fmt.Errorf("plain"), "internal"},
		{errors.Newf(errors.CategoryRender, "no code"), "internal"},
	}
	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
