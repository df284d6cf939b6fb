// Package metrics exposes Prometheus collectors for ledger operations.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"donorledger/pkg/domain"
)

// DefaultNamespace prefixes every metric name when none is configured.
const DefaultNamespace = "donorledger"

// Metrics implements core.MetricsRecorder together with the donation and
// inventory observers.
type Metrics struct {
	// Operation outcomes by operation and status
	Operations *prometheus.CounterVec

	// Operation latency by operation
	OperationLatency *prometheus.HistogramVec

	// Donated units by blood type
	DonatedUnits *prometheus.CounterVec

	// Current stock by blood type
	InventoryUnits *prometheus.GaugeVec
}

// New registers the ledger collectors with reg. A nil registerer uses the
// Prometheus default registry.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total ledger operations by operation and status",
		}, []string{"operation", "status"}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of ledger operations including persistence",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		DonatedUnits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donated_units_total",
			Help:      "Units collected by recorded donations by blood type",
		}, []string{"blood_type"}),

		InventoryUnits: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_units",
			Help:      "Units currently in stock by blood type",
		}, []string{"blood_type"}),
	}
}

// Observe records an operation outcome and latency.
func (m *Metrics) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if m == nil || operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	m.Operations.WithLabelValues(operation, status).Inc()
	m.OperationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveDonation adds donated units for bloodType. Non-positive unit counts
// are ignored because counters only increase.
func (m *Metrics) ObserveDonation(_ context.Context, bloodType domain.BloodType, units int) {
	if m == nil || units <= 0 {
		return
	}
	m.DonatedUnits.WithLabelValues(string(bloodType)).Add(float64(units))
}

// ObserveInventory sets the stock gauge for every item.
func (m *Metrics) ObserveInventory(_ context.Context, items []domain.InventoryItem) {
	if m == nil {
		return
	}
	for _, item := range items {
		m.InventoryUnits.WithLabelValues(string(item.BloodType)).Set(float64(item.Units))
	}
}
