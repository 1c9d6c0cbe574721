package checkout

import (
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-campaigns/internal/common"
	"github.com/noah-isme/toko-campaigns/internal/obs"
)

// Handler exposes campaign evaluation over HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type campaignInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Specs int    `json:"specs"`
}

// Evaluate applies the configured campaigns to the posted cart and returns
// the discounted lines.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	c, err := DecodeCart(r.Body, h.validator())
	if err != nil {
		obs.ObserveEvaluation(obs.ResultInvalid, 0, 0)
		common.WriteError(w, err)
		return
	}
	result, err := h.Svc.Evaluate(r.Context(), c)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, NewEvaluateResponse(result))
}

// Campaigns lists the loaded campaigns in execution order.
func (h *Handler) Campaigns(w http.ResponseWriter, _ *http.Request) {
	if h.Svc == nil || h.Svc.Runner == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	campaigns := h.Svc.Runner.Campaigns()
	out := make([]campaignInfo, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, campaignInfo{Name: c.Name(), Kind: c.Kind(), Specs: c.Specs()})
	}
	common.Data(w, http.StatusOK, out)
}

func (h *Handler) validator() *validator.Validate {
	if h.Validate != nil {
		return h.Validate
	}
	return defaultValidator
}
