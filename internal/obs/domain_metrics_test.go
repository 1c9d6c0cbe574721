package obs_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/toko-campaigns/internal/obs"
)

func TestDomainMetricsObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("toko", registry)

	obs.ObserveEvaluation(obs.ResultOK, 0.2, 1_000)
	obs.ObserveEvaluation(obs.ResultConfigError, 0.1, 0)
	obs.ObserveCampaign("loyalty", 2)
	obs.ObserveCampaign("spend-tiers", 0)

	if got := testutil.ToFloat64(obs.CartEvaluationsTotal.WithLabelValues(obs.ResultOK)); got != 1 {
		t.Fatalf("expected one ok evaluation, got %v", got)
	}
	if got := testutil.ToFloat64(obs.CartEvaluationsTotal.WithLabelValues(obs.ResultConfigError)); got != 1 {
		t.Fatalf("expected one config error, got %v", got)
	}
	if got := testutil.ToFloat64(obs.CampaignApplicationsTotal.WithLabelValues("loyalty")); got != 2 {
		t.Fatalf("expected two loyalty applications, got %v", got)
	}
	if got := testutil.ToFloat64(obs.CartDiscountMinorUnits); got != 1_000 {
		t.Fatalf("expected discount total 1000, got %v", got)
	}
	if samples := testutil.CollectAndCount(obs.CartEvaluationLatency); samples == 0 {
		t.Fatalf("expected latency histogram sample")
	}
}
