package campaign

import (
	"fmt"

	"github.com/noah-isme/toko-campaigns/internal/cart"
)

// CustomerTagDiscountCampaign applies a discount to matching line items when
// the cart's customer matches a tag rule.
type CustomerTagDiscountCampaign struct {
	name  string
	specs []TagDiscountSpec
}

// NewCustomerTagDiscountCampaign keeps specs in evaluation order.
func NewCustomerTagDiscountCampaign(name string, specs []TagDiscountSpec) *CustomerTagDiscountCampaign {
	if name == "" {
		name = KindCustomerTag
	}
	return &CustomerTagDiscountCampaign{name: name, specs: specs}
}

func (c *CustomerTagDiscountCampaign) Name() string { return c.name }
func (c *CustomerTagDiscountCampaign) Kind() string { return KindCustomerTag }
func (c *CustomerTagDiscountCampaign) Specs() int   { return len(c.specs) }

// Validate builds every spec's selectors and applicator.
func (c *CustomerTagDiscountCampaign) Validate() error {
	for i, spec := range c.specs {
		if _, _, _, err := buildTagSpec(spec); err != nil {
			return fmt.Errorf("spec %d: %w", i, err)
		}
	}
	return nil
}

// Run is a no-op when the cart has no customer or the customer has no tags.
// Specs run in order, so a line item can be discounted by several specs with
// each discount compounding on the current price.
func (c *CustomerTagDiscountCampaign) Run(ct *cart.Cart) (int, error) {
	if !ct.Customer.HasTags() {
		return 0, nil
	}
	applied := 0
	for i, spec := range c.specs {
		customerSel, productSel, applicator, err := buildTagSpec(spec)
		if err != nil {
			return applied, fmt.Errorf("spec %d: %w", i, err)
		}
		if !customerSel.Match(ct.Customer) {
			continue
		}
		for _, li := range ct.LineItems {
			if !productSel.Match(li) {
				continue
			}
			applicator.Apply(li)
			applied++
		}
	}
	return applied, nil
}

func buildTagSpec(spec TagDiscountSpec) (CustomerTagSelector, ProductSelector, DiscountApplicator, error) {
	customerSel, err := NewCustomerTagSelector(spec.Customer)
	if err != nil {
		return CustomerTagSelector{}, ProductSelector{}, DiscountApplicator{}, err
	}
	productSel, err := NewProductSelector(spec.Product)
	if err != nil {
		return CustomerTagSelector{}, ProductSelector{}, DiscountApplicator{}, err
	}
	applicator, err := NewDiscountApplicator(spec.Discount)
	if err != nil {
		return CustomerTagSelector{}, ProductSelector{}, DiscountApplicator{}, err
	}
	return customerSel, productSel, applicator, nil
}
