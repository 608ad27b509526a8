package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStoreMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.IncMutation("invoice", "create")
	m.IncMutation("invoice", "create")
	m.IncPersistFailure("smh.invoices")
	m.IncFallback("smh.appdata", FallbackReasonParse)
	m.IncFallback("", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("invoice", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures.WithLabelValues("smh.invoices")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFallbacks.WithLabelValues("smh.appdata", FallbackReasonParse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFallbacks.WithLabelValues("unknown", "unknown")))
}

func TestStoreMetrics_NilSafe(t *testing.T) {
	var m *StoreMetrics
	m.IncMutation("resource", "add_driver")
	m.IncPersistFailure("smh.resources")
	m.IncFallback("smh.resources", FallbackReasonMissing)
}
