package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	FallbackReasonMissing   = "missing"
	FallbackReasonReadError = "read_error"
	FallbackReasonParse     = "parse_error"
	FallbackReasonShape     = "shape_mismatch"
)

// StoreMetrics counts store mutations and persistence outcomes.
type StoreMetrics struct {
	mutations        *prometheus.CounterVec
	persistFailures  *prometheus.CounterVec
	persistFallbacks *prometheus.CounterVec
}

var (
	defaultStoreOnce    sync.Once
	defaultStoreMetrics *StoreMetrics
)

// NewStoreMetrics registers the store collectors on reg. A nil registerer
// leaves the collectors unregistered, which is what tests want.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smh_store_mutations_total",
			Help: "Counts store mutations by store and operation.",
		}, []string{"store", "op"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smh_persist_failures_total",
			Help: "Counts snapshot writes that failed and were dropped.",
		}, []string{"key"}),
		persistFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smh_persist_fallbacks_total",
			Help: "Counts loads that fell back to seed data.",
		}, []string{"key", "reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.mutations, m.persistFailures, m.persistFallbacks)
	}
	return m
}

// DefaultStoreMetrics registers once on the default prometheus registry.
func DefaultStoreMetrics() *StoreMetrics {
	defaultStoreOnce.Do(func() {
		defaultStoreMetrics = NewStoreMetrics(prometheus.DefaultRegisterer)
	})
	return defaultStoreMetrics
}

func (m *StoreMetrics) IncMutation(store, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

func (m *StoreMetrics) IncPersistFailure(key string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(normalizeLabel(key)).Inc()
}

func (m *StoreMetrics) IncFallback(key, reason string) {
	if m == nil {
		return
	}
	m.persistFallbacks.WithLabelValues(normalizeLabel(key), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
