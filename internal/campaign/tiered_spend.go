package campaign

import (
	"fmt"

	"github.com/noah-isme/toko-campaigns/internal/cart"
	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

// TieredSpendDiscountCampaign discounts every matching line item once the
// combined spend on those items reaches a tier threshold.
type TieredSpendDiscountCampaign struct {
	name  string
	specs []TieredSpendSpec
}

// NewTieredSpendDiscountCampaign keeps specs in evaluation order.
func NewTieredSpendDiscountCampaign(name string, specs []TieredSpendSpec) *TieredSpendDiscountCampaign {
	if name == "" {
		name = KindTieredSpend
	}
	return &TieredSpendDiscountCampaign{name: name, specs: specs}
}

func (c *TieredSpendDiscountCampaign) Name() string { return c.name }
func (c *TieredSpendDiscountCampaign) Kind() string { return KindTieredSpend }
func (c *TieredSpendDiscountCampaign) Specs() int   { return len(c.specs) }

// Validate builds every spec's selectors and every tier's applicator.
func (c *TieredSpendDiscountCampaign) Validate() error {
	for i, spec := range c.specs {
		if !spec.Customer.IsZero() {
			if _, err := NewCustomerTagSelector(spec.Customer); err != nil {
				return fmt.Errorf("spec %d: %w", i, err)
			}
		}
		if _, err := NewProductSelector(spec.Product); err != nil {
			return fmt.Errorf("spec %d: %w", i, err)
		}
		for j, tier := range spec.Tiers {
			if tier.Threshold < 0 {
				return fmt.Errorf("spec %d tier %d: %w", i, j, configErr("threshold", tier.Threshold, "must not be negative"))
			}
			if _, err := NewDiscountApplicator(tier.Discount); err != nil {
				return fmt.Errorf("spec %d tier %d: %w", i, j, err)
			}
		}
	}
	return nil
}

// Run is a no-op when the cart has no customer. A spec without a customer
// rule applies to every customer. Thresholds are inclusive.
func (c *TieredSpendDiscountCampaign) Run(ct *cart.Cart) (int, error) {
	if ct.Customer == nil {
		return 0, nil
	}
	applied := 0
	for i, spec := range c.specs {
		if !spec.Customer.IsZero() {
			customerSel, err := NewCustomerTagSelector(spec.Customer)
			if err != nil {
				return applied, fmt.Errorf("spec %d: %w", i, err)
			}
			if !customerSel.Match(ct.Customer) {
				continue
			}
		}

		items, total, err := applicableItems(ct, spec.Product)
		if err != nil {
			return applied, fmt.Errorf("spec %d: %w", i, err)
		}
		if len(items) == 0 {
			continue
		}

		tier, ok := ResolveTier(spec.Tiers, total)
		if !ok {
			continue
		}
		applicator, err := NewDiscountApplicator(tier.Discount)
		if err != nil {
			return applied, fmt.Errorf("spec %d: %w", i, err)
		}
		for _, li := range items {
			applicator.Apply(li)
			applied++
		}
	}
	return applied, nil
}

func applicableItems(ct *cart.Cart, rule ProductRule) ([]*cart.LineItem, pricing.Money, error) {
	if rule.Kind == SelectAll {
		return ct.LineItems, ct.Subtotal(), nil
	}
	selector, err := NewProductSelector(rule)
	if err != nil {
		return nil, pricing.Zero, err
	}
	items := selector.Filter(ct.LineItems)
	total := pricing.Zero
	for _, li := range items {
		total = total.Add(li.LinePrice)
	}
	return items, total, nil
}
