package checkout

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-campaigns/internal/campaign"
	"github.com/noah-isme/toko-campaigns/internal/cart"
	"github.com/noah-isme/toko-campaigns/internal/common"
	"github.com/noah-isme/toko-campaigns/internal/obs"
	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

// Service evaluates campaigns against carts supplied by the host.
type Service struct {
	Runner   *campaign.Runner
	Logger   zerolog.Logger
	Currency string
	Now      func() time.Time
}

// Result is the outcome of one evaluation. Cart is the same value passed
// in, mutated in place.
type Result struct {
	RunID    string
	Currency string
	Cart     *cart.Cart
	Original []pricing.Money
	Summary  pricing.Summary
	Report   campaign.Report
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Evaluate runs every configured campaign against the cart. A configuration
// error aborts the run and is returned as an AppError; discounts applied by
// campaigns that completed before the failure remain on the cart.
func (s *Service) Evaluate(ctx context.Context, c *cart.Cart) (Result, error) {
	if s == nil || s.Runner == nil {
		return Result{}, common.NewAppError("INTERNAL", "campaign runner not configured", http.StatusInternalServerError, nil)
	}
	if c == nil {
		obs.ObserveEvaluation(obs.ResultInvalid, 0, 0)
		return Result{}, common.NewAppError("BAD_REQUEST", "cart is required", http.StatusBadRequest, campaign.ErrNilCart)
	}

	_, span := obs.Tracer().Start(ctx, "campaign.evaluate")
	defer span.End()

	runID := uuid.NewString()
	logger := s.Logger.With().Str("run_id", runID).Logger()
	original := c.LinePrices()

	start := s.now()
	report, err := s.Runner.Run(c)
	elapsed := obs.DurationMillis(s.now().Sub(start))

	obs.RecordEvaluation(ctx, runID, report.Applications())
	for _, res := range report.Campaigns {
		obs.ObserveCampaign(res.Name, res.Applications)
		logger.Debug().Str("campaign", res.Name).Int("applications", res.Applications).Msg("campaign_run")
	}

	result := Result{
		RunID:    runID,
		Currency: s.Currency,
		Cart:     c,
		Original: original,
		Summary:  summarize(original, c),
		Report:   report,
	}
	span.SetAttributes(
		attribute.String("campaign.run_id", runID),
		attribute.Int("cart.line_items", len(c.LineItems)),
		attribute.Int64("cart.discount", int64(result.Summary.Discount)),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "campaign evaluation failed")
		logger.Error().Err(err).Msg("campaign evaluation aborted")
		if errors.Is(err, campaign.ErrInvalidConfig) {
			obs.ObserveEvaluation(obs.ResultConfigError, elapsed, 0)
			return result, common.NewAppError("CAMPAIGN_CONFIG_INVALID", "campaign configuration is invalid", http.StatusInternalServerError, err)
		}
		obs.ObserveEvaluation(obs.ResultError, elapsed, 0)
		return result, common.NewAppError("INTERNAL", "campaign evaluation failed", http.StatusInternalServerError, err)
	}

	obs.ObserveEvaluation(obs.ResultOK, elapsed, int64(result.Summary.Discount))
	logger.Info().
		Int("line_items", len(c.LineItems)).
		Int("applications", report.Applications()).
		Str("subtotal", result.Summary.Subtotal.String()).
		Str("discount", result.Summary.Discount.String()).
		Msg("cart_evaluated")
	return result, nil
}

func summarize(original []pricing.Money, c *cart.Cart) pricing.Summary {
	items := make([]pricing.Item, len(c.LineItems))
	for i, li := range c.LineItems {
		items[i] = pricing.Item{Original: original[i], Final: li.LinePrice}
	}
	return pricing.Compute(items)
}
