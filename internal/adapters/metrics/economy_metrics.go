package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// EconomyMetricsCollector handles all economy tick metrics
type EconomyMetricsCollector struct {
	payouts       *prometheus.CounterVec
	creditsEarned *prometheus.CounterVec
	creditBalance *prometheus.GaugeVec
}

// NewEconomyMetricsCollector creates a new economy metrics collector
func NewEconomyMetricsCollector() *EconomyMetricsCollector {
	return &EconomyMetricsCollector{
		payouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "economy_payouts_total",
				Help:      "Total economy ticks that credited an empire",
			},
			[]string{"empire_id"},
		),

		creditsEarned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "economy_credits_earned_total",
				Help:      "Total credits paid out by empire",
			},
			[]string{"empire_id"},
		),

		creditBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "empire_credit_balance",
				Help:      "Credit balance observed at the last economy tick",
			},
			[]string{"empire_id"},
		),
	}
}

// Register registers all economy metrics with the given registry
func (c *EconomyMetricsCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		c.payouts,
		c.creditsEarned,
		c.creditBalance,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordPayout records an applied economy tick
func (c *EconomyMetricsCollector) RecordPayout(empireID int, creditsEarned int64, newBalance int64) {
	id := strconv.Itoa(empireID)
	c.payouts.WithLabelValues(id).Inc()
	c.creditsEarned.WithLabelValues(id).Add(float64(creditsEarned))
	c.creditBalance.WithLabelValues(id).Set(float64(newBalance))
}
