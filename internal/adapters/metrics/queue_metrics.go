package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// QueueMetricsCollector handles all queue slot and lifecycle metrics
type QueueMetricsCollector struct {
	slotReservations *prometheus.CounterVec
	completions      *prometheus.CounterVec
	cancellations    *prometheus.CounterVec
	refundedCredits  *prometheus.CounterVec
}

// NewQueueMetricsCollector creates a new queue metrics collector
func NewQueueMetricsCollector() *QueueMetricsCollector {
	return &QueueMetricsCollector{
		// Slot reservation attempts by outcome: won or lost
		slotReservations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_slot_reservations_total",
				Help:      "Total queue slot reservation attempts by empire, catalog key and outcome",
			},
			[]string{"empire_id", "catalog_key", "outcome"},
		),

		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_completions_total",
				Help:      "Total queue items finalized by empire and catalog key",
			},
			[]string{"empire_id", "catalog_key"},
		),

		cancellations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_cancellations_total",
				Help:      "Total queue items cancelled by empire and catalog key",
			},
			[]string{"empire_id", "catalog_key"},
		),

		refundedCredits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_refunded_credits_total",
				Help:      "Total credits refunded through cancellations by empire",
			},
			[]string{"empire_id"},
		),
	}
}

// Register registers all queue metrics with the given registry
func (c *QueueMetricsCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		c.slotReservations,
		c.completions,
		c.cancellations,
		c.refundedCredits,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordSlotWon records a won slot reservation
func (c *QueueMetricsCollector) RecordSlotWon(empireID int, catalogKey string) {
	c.slotReservations.WithLabelValues(strconv.Itoa(empireID), catalogKey, "won").Inc()
}

// RecordSlotLost records a lost slot race
func (c *QueueMetricsCollector) RecordSlotLost(empireID int, catalogKey string) {
	c.slotReservations.WithLabelValues(strconv.Itoa(empireID), catalogKey, "lost").Inc()
}

// RecordCompletion records a finalized item
func (c *QueueMetricsCollector) RecordCompletion(empireID int, catalogKey string) {
	c.completions.WithLabelValues(strconv.Itoa(empireID), catalogKey).Inc()
}

// RecordCancellation records a cancellation and its refund
func (c *QueueMetricsCollector) RecordCancellation(empireID int, catalogKey string, refundedCredits int64) {
	c.cancellations.WithLabelValues(strconv.Itoa(empireID), catalogKey).Inc()
	c.refundedCredits.WithLabelValues(strconv.Itoa(empireID)).Add(float64(refundedCredits))
}
