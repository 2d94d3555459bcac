package prediction

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK          = "ok"
	outcomeDegraded    = "degraded"
	outcomeUnavailable = "model_unavailable"
	outcomeError       = "error"

	reasonExplainerAbsent     = "explainer_absent"
	reasonExplainerError      = "explainer_error"
	reasonContractViolation   = "contract_violation"
	reasonNoAttributionSignal = "zero_attribution"
)

var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbon_predictions_total",
			Help: "Count of footprint predictions by outcome.",
		},
		[]string{"outcome"},
	)

	AttributionDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbon_attribution_degraded_total",
			Help: "Count of predictions served without a full attribution breakdown, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(PredictionsTotal, AttributionDegradedTotal)
}
