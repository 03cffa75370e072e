package observability

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBackendCallLabelsResult(t *testing.T) {
	m := NewMetrics()

	m.RecordBackendCall("employees.list", 200, 10*time.Millisecond)
	m.RecordBackendCall("employees.list", 503, 10*time.Millisecond)
	m.RecordBackendCall("employees.list", 0, time.Millisecond)

	mfs, err := m.Registry().Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "fleet_admin_backend_calls_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			got[labelValue(metric, "result")] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"ok": 1, "5xx": 1, "transport_error": 1}, got)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/x", "GET", 200, time.Second)
		m.RecordError("/x", "GET", "NOT_FOUND")
		m.RecordViewLoad(LoadApplied)
		m.SetOpenViews(3)
	})
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
