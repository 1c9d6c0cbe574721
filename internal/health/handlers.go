package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// CampaignSource reports how many campaigns the runner holds.
type CampaignSource interface {
	CampaignCount() int
}

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the process-wide readiness flag. The server clears it when
// shutdown begins so load balancers stop routing new carts.
func SetReady(v bool) { ready.Store(v) }

// IsReady reports the readiness flag.
func IsReady() bool { return ready.Load() }

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	// Checker is nil when Redis is not configured.
	Checker      Checker
	Campaigns    CampaignSource
	RedisTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on the shutdown flag, the loaded campaign
// tables and the optional Redis probe.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	healthy := true
	status := map[string]any{}

	if !IsReady() {
		healthy = false
		status["server"] = "shutting down"
	} else {
		status["server"] = "ok"
	}

	if h.Campaigns == nil {
		healthy = false
		status["campaigns"] = "not loaded"
	} else {
		status["campaigns"] = h.Campaigns.CampaignCount()
	}

	switch {
	case h.Checker == nil:
		status["redis"] = "disabled"
	default:
		if err := h.Checker.PingRedis(r.Context(), h.redisTimeout()); err != nil {
			healthy = false
			status["redis"] = err.Error()
		} else {
			status["redis"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
