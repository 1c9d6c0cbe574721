package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-campaigns/internal/campaign"
	"github.com/noah-isme/toko-campaigns/internal/cart"
	"github.com/noah-isme/toko-campaigns/internal/common"
	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// Request bounds. A full cart of maximum-price lines still sums well inside
// pricing.MaxMoney.
const (
	maxLineItems = 500
	maxLinePrice = pricing.MaxMoney / (maxLineItems * 1024)
)

type evaluateRequest struct {
	Customer  *customerPayload  `json:"customer"`
	LineItems []lineItemPayload `json:"lineItems" validate:"max=500,dive"`
}

type customerPayload struct {
	ID   int64    `json:"id"`
	Tags []string `json:"tags" validate:"max=250"`
}

type lineItemPayload struct {
	ID            string         `json:"id"`
	Quantity      int            `json:"quantity" validate:"gt=0,max=1000000"`
	LinePrice     string         `json:"linePrice" validate:"required,numeric"`
	SellingPlanID *int64         `json:"sellingPlanId"`
	Variant       variantPayload `json:"variant"`
}

type variantPayload struct {
	ID      int64          `json:"id"`
	Product productPayload `json:"product"`
}

type productPayload struct {
	ID     int64    `json:"id"`
	Type   string   `json:"type"`
	Vendor string   `json:"vendor"`
	Tags   []string `json:"tags"`
}

type lineItemResult struct {
	ID                string        `json:"id,omitempty"`
	Quantity          int           `json:"quantity"`
	Variant           cart.Variant  `json:"variant"`
	SellingPlanID     *int64        `json:"sellingPlanId,omitempty"`
	OriginalLinePrice pricing.Money `json:"originalLinePrice"`
	LinePrice         pricing.Money `json:"linePrice"`
	Message           string        `json:"message,omitempty"`
}

// EvaluateResponse is the JSON shape of an evaluated cart.
type EvaluateResponse struct {
	RunID     string                    `json:"runId"`
	Currency  string                    `json:"currency"`
	Customer  *cart.Customer            `json:"customer"`
	LineItems []lineItemResult          `json:"lineItems"`
	Summary   pricing.Summary           `json:"summary"`
	Campaigns []campaign.CampaignResult `json:"campaigns"`
}

// DecodeCart reads one cart document from r. Malformed JSON yields a
// BAD_REQUEST AppError; payloads failing validation yield VALIDATION_FAILED.
// A nil validate uses the package default.
func DecodeCart(r io.Reader, validate *validator.Validate) (*cart.Cart, error) {
	if validate == nil {
		validate = defaultValidator
	}
	var payload evaluateRequest
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, common.NewAppError("VALIDATION_FAILED", "invalid cart", http.StatusUnprocessableEntity, err).
			WithDetails(validationDetails(err))
	}
	c, err := payload.toCart()
	if err != nil {
		return nil, common.NewAppError("VALIDATION_FAILED", err.Error(), http.StatusUnprocessableEntity, err)
	}
	return c, nil
}

func (p evaluateRequest) toCart() (*cart.Cart, error) {
	c := &cart.Cart{LineItems: make([]*cart.LineItem, 0, len(p.LineItems))}
	if p.Customer != nil {
		c.Customer = &cart.Customer{ID: p.Customer.ID, Tags: p.Customer.Tags}
	}
	for _, li := range p.LineItems {
		price, err := pricing.ParseMoney(li.LinePrice)
		if err != nil {
			return nil, err
		}
		if price < 0 {
			return nil, errors.New("linePrice must not be negative")
		}
		if price > maxLinePrice {
			return nil, fmt.Errorf("linePrice must not exceed %s", maxLinePrice)
		}
		c.LineItems = append(c.LineItems, &cart.LineItem{
			ID:            li.ID,
			Quantity:      li.Quantity,
			LinePrice:     price,
			SellingPlanID: li.SellingPlanID,
			Variant: cart.Variant{
				ID: li.Variant.ID,
				Product: cart.Product{
					ID:     li.Variant.Product.ID,
					Type:   li.Variant.Product.Type,
					Vendor: li.Variant.Product.Vendor,
					Tags:   li.Variant.Product.Tags,
				},
			},
		})
	}
	return c, nil
}

// NewEvaluateResponse renders an evaluation result with the original and
// discounted price of every line.
func NewEvaluateResponse(res Result) EvaluateResponse {
	lines := make([]lineItemResult, len(res.Cart.LineItems))
	for i, li := range res.Cart.LineItems {
		lines[i] = lineItemResult{
			ID:                li.ID,
			Quantity:          li.Quantity,
			Variant:           li.Variant,
			SellingPlanID:     li.SellingPlanID,
			OriginalLinePrice: res.Original[i],
			LinePrice:         li.LinePrice,
			Message:           li.Message,
		}
	}
	campaigns := res.Report.Campaigns
	if campaigns == nil {
		campaigns = []campaign.CampaignResult{}
	}
	return EvaluateResponse{
		RunID:     res.RunID,
		Currency:  res.Currency,
		Customer:  res.Cart.Customer,
		LineItems: lines,
		Summary:   res.Summary,
		Campaigns: campaigns,
	}
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}
