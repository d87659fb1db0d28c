package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "attrition"
	// Subsystem for engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalQueueCollector records queue slot and lifecycle events.
	// Set by SetGlobalQueueCollector() when metrics are enabled.
	globalQueueCollector QueueMetricsRecorder

	// globalEconomyCollector records payout events.
	// Set by SetGlobalEconomyCollector() when metrics are enabled.
	globalEconomyCollector EconomyMetricsRecorder
)

// QueueMetricsRecorder defines the interface for recording queue events
type QueueMetricsRecorder interface {
	RecordSlotWon(empireID int, catalogKey string)
	RecordSlotLost(empireID int, catalogKey string)
	RecordCompletion(empireID int, catalogKey string)
	RecordCancellation(empireID int, catalogKey string, refundedCredits int64)
}

// EconomyMetricsRecorder defines the interface for recording economy events
type EconomyMetricsRecorder interface {
	RecordPayout(empireID int, creditsEarned int64, newBalance int64)
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// SetGlobalQueueCollector installs the queue metrics collector
func SetGlobalQueueCollector(c QueueMetricsRecorder) {
	globalQueueCollector = c
}

// SetGlobalEconomyCollector installs the economy metrics collector
func SetGlobalEconomyCollector(c EconomyMetricsRecorder) {
	globalEconomyCollector = c
}

// RecordSlotWon records a won queue slot reservation (no-op when metrics
// are disabled)
func RecordSlotWon(empireID int, catalogKey string) {
	if globalQueueCollector != nil {
		globalQueueCollector.RecordSlotWon(empireID, catalogKey)
	}
}

// RecordSlotLost records a lost slot race
func RecordSlotLost(empireID int, catalogKey string) {
	if globalQueueCollector != nil {
		globalQueueCollector.RecordSlotLost(empireID, catalogKey)
	}
}

// RecordCompletion records a finalized queue item
func RecordCompletion(empireID int, catalogKey string) {
	if globalQueueCollector != nil {
		globalQueueCollector.RecordCompletion(empireID, catalogKey)
	}
}

// RecordCancellation records a cancelled queue item and its refund
func RecordCancellation(empireID int, catalogKey string, refundedCredits int64) {
	if globalQueueCollector != nil {
		globalQueueCollector.RecordCancellation(empireID, catalogKey, refundedCredits)
	}
}

// RecordPayout records an applied economy tick
func RecordPayout(empireID int, creditsEarned int64, newBalance int64) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordPayout(empireID, creditsEarned, newBalance)
	}
}
