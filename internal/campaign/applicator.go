package campaign

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-campaigns/internal/cart"
	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

var maxPercent = decimal.NewFromInt(100)

// DiscountApplicator rewrites line prices for one resolved discount.
type DiscountApplicator struct {
	kind    DiscountKind
	percent decimal.Decimal
	perUnit pricing.Money
	message string
}

// NewDiscountApplicator validates the discount. Percent amounts must lie in
// [0,100]; fixed amounts are per unit, in major units, and must not be negative.
func NewDiscountApplicator(d Discount) (DiscountApplicator, error) {
	switch d.Kind {
	case DiscountPercent:
		if d.Amount.IsNegative() || d.Amount.GreaterThan(maxPercent) {
			return DiscountApplicator{}, configErr("discount_amount", d.Amount, "percent must be between 0 and 100")
		}
		return DiscountApplicator{kind: d.Kind, percent: d.Amount, message: d.Message}, nil
	case DiscountFixed:
		if d.Amount.IsNegative() {
			return DiscountApplicator{}, configErr("discount_amount", d.Amount, "fixed amount must not be negative")
		}
		perUnit, err := pricing.FromDecimal(d.Amount)
		if err != nil {
			return DiscountApplicator{}, configErr("discount_amount", d.Amount, "fixed amount is out of range")
		}
		return DiscountApplicator{kind: d.Kind, perUnit: perUnit, message: d.Message}, nil
	default:
		return DiscountApplicator{}, configErr("discount_type", d.Kind, "must be percent or fixed")
	}
}

// Apply rewrites the line price and attaches the message, even when the
// price does not change.
func (a DiscountApplicator) Apply(li *cart.LineItem) {
	li.ChangeLinePrice(a.Price(li.LinePrice, li.Quantity), a.message)
}

// Price computes the discounted line price without touching any line item.
// A fixed discount never raises the price: the per-unit deduction saturates
// on huge quantities and non-positive quantities deduct nothing.
func (a DiscountApplicator) Price(linePrice pricing.Money, quantity int) pricing.Money {
	if a.kind == DiscountPercent {
		return linePrice.ApplyPercentOff(a.percent)
	}
	if quantity <= 0 {
		return linePrice.FloorZero()
	}
	deduction := a.perUnit.MulInt(quantity)
	if deduction >= linePrice {
		return pricing.Zero
	}
	return linePrice.Sub(deduction)
}
