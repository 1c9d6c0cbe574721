package cart

import "github.com/noah-isme/toko-campaigns/internal/pricing"

// Customer is the shopper attached to a cart. Tags are compared
// case-insensitively after trimming.
type Customer struct {
	ID   int64    `json:"id,omitempty"`
	Tags []string `json:"tags"`
}

// HasTags reports whether the customer carries at least one tag.
func (c *Customer) HasTags() bool {
	return c != nil && len(c.Tags) > 0
}

// Product holds the catalog attributes discount rules select on.
type Product struct {
	ID     int64    `json:"id"`
	Type   string   `json:"type"`
	Vendor string   `json:"vendor"`
	Tags   []string `json:"tags"`
}

// Variant is a purchasable variation of exactly one product.
type Variant struct {
	ID      int64   `json:"id"`
	Product Product `json:"product"`
}

// LineItem is one cart entry. Only LinePrice and Message change while
// campaigns run.
type LineItem struct {
	ID            string        `json:"id,omitempty"`
	Variant       Variant       `json:"variant"`
	Quantity      int           `json:"quantity"`
	LinePrice     pricing.Money `json:"linePrice"`
	SellingPlanID *int64        `json:"sellingPlanId,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// IsSubscription reports whether the line is bought on a selling plan.
func (li *LineItem) IsSubscription() bool {
	return li.SellingPlanID != nil
}

// ChangeLinePrice rewrites the line price and records the message shown to
// the shopper for the most recent adjustment.
func (li *LineItem) ChangeLinePrice(price pricing.Money, message string) {
	li.LinePrice = price
	li.Message = message
}

// Cart is the host-owned checkout cart. Campaigns mutate it in place.
type Cart struct {
	Customer  *Customer   `json:"customer"`
	LineItems []*LineItem `json:"lineItems"`
}

// Subtotal sums the current line prices. It is recomputed on every call
// because earlier campaigns may already have rewritten prices.
func (c *Cart) Subtotal() pricing.Money {
	total := pricing.Zero
	for _, li := range c.LineItems {
		total = total.Add(li.LinePrice)
	}
	return total
}

// LinePrices snapshots the current line prices in cart order.
func (c *Cart) LinePrices() []pricing.Money {
	out := make([]pricing.Money, len(c.LineItems))
	for i, li := range c.LineItems {
		out[i] = li.LinePrice
	}
	return out
}
