package campaign

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-campaigns/internal/cart"
	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

func lineItem(price pricing.Money, qty int, tags ...string) *cart.LineItem {
	return &cart.LineItem{
		Quantity:  qty,
		LinePrice: price,
		Variant: cart.Variant{
			ID:      100,
			Product: cart.Product{ID: 1, Type: "Shirt", Vendor: "Acme", Tags: tags},
		},
	}
}

func percentOff(amount int64, message string) Discount {
	return Discount{Kind: DiscountPercent, Amount: decimal.NewFromInt(amount), Message: message}
}

func fixedOff(amount string, message string) Discount {
	return Discount{Kind: DiscountFixed, Amount: decimal.RequireFromString(amount), Message: message}
}

func snapshot(c *cart.Cart) []cart.LineItem {
	out := make([]cart.LineItem, len(c.LineItems))
	for i, li := range c.LineItems {
		out[i] = *li
	}
	return out
}
