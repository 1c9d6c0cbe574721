package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartEvaluationsTotal counts cart evaluations by outcome.
	CartEvaluationsTotal *prometheus.CounterVec
	// CampaignApplicationsTotal counts line-item discounts applied per campaign.
	CampaignApplicationsTotal *prometheus.CounterVec
	// CartEvaluationLatency records runner latency in milliseconds.
	CartEvaluationLatency prometheus.Histogram
	// CartDiscountMinorUnits accumulates the discount granted, in minor units.
	CartDiscountMinorUnits prometheus.Counter
)

// Evaluation outcomes used as the result label.
const (
	ResultOK          = "ok"
	ResultConfigError = "config_error"
	ResultInvalid     = "invalid"
	ResultError       = "error"
)

// MustRegisterDomainMetrics initialises and registers campaign evaluation collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_evaluations_total",
			Help:      "Count of cart evaluations by outcome.",
		}, []string{"result"})
		CampaignApplicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_applications_total",
			Help:      "Count of line-item discounts applied by campaign.",
		}, []string{"campaign"})
		CartEvaluationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_evaluation_duration_ms",
			Help:      "Latency of campaign evaluation per cart in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		})
		CartDiscountMinorUnits = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_discount_minor_units_total",
			Help:      "Total discount granted by campaigns in currency minor units.",
		})

		CartEvaluationsTotal = register(reg, CartEvaluationsTotal)
		CampaignApplicationsTotal = register(reg, CampaignApplicationsTotal)
		CartEvaluationLatency = register(reg, CartEvaluationLatency)
		CartDiscountMinorUnits = register(reg, CartDiscountMinorUnits)
	})
}

// ObserveEvaluation records one evaluation. Safe to call before registration.
func ObserveEvaluation(result string, millis float64, discount int64) {
	if CartEvaluationsTotal != nil {
		CartEvaluationsTotal.WithLabelValues(result).Inc()
	}
	if CartEvaluationLatency != nil && result != ResultInvalid {
		CartEvaluationLatency.Observe(millis)
	}
	if CartDiscountMinorUnits != nil && discount > 0 {
		CartDiscountMinorUnits.Add(float64(discount))
	}
}

// ObserveCampaign records the applications made by one campaign.
func ObserveCampaign(name string, applications int) {
	if CampaignApplicationsTotal != nil && applications > 0 {
		CampaignApplicationsTotal.WithLabelValues(name).Add(float64(applications))
	}
}
