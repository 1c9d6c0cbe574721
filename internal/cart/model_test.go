package cart

import (
	"testing"

	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

func TestSubtotalReflectsMutations(t *testing.T) {
	c := &Cart{LineItems: []*LineItem{
		{Quantity: 1, LinePrice: 10_000},
		{Quantity: 2, LinePrice: 5_000},
	}}
	if got := c.Subtotal(); got != 15_000 {
		t.Fatalf("expected subtotal 15000, got %d", got)
	}
	c.LineItems[0].ChangeLinePrice(9_000, "10% off")
	if got := c.Subtotal(); got != 14_000 {
		t.Fatalf("expected subtotal 14000 after change, got %d", got)
	}
	if c.LineItems[0].Message != "10% off" {
		t.Fatalf("expected message to be recorded, got %q", c.LineItems[0].Message)
	}
}

func TestEmptyCartSubtotal(t *testing.T) {
	if got := (&Cart{}).Subtotal(); got != pricing.Zero {
		t.Fatalf("expected zero subtotal, got %d", got)
	}
}

func TestCustomerHasTags(t *testing.T) {
	var nilCustomer *Customer
	if nilCustomer.HasTags() {
		t.Fatal("nil customer must not report tags")
	}
	if (&Customer{}).HasTags() {
		t.Fatal("untagged customer must not report tags")
	}
	if !(&Customer{Tags: []string{"vip"}}).HasTags() {
		t.Fatal("tagged customer must report tags")
	}
}

func TestIsSubscription(t *testing.T) {
	plan := int64(42)
	if (&LineItem{}).IsSubscription() {
		t.Fatal("one-off purchase reported as subscription")
	}
	if !(&LineItem{SellingPlanID: &plan}).IsSubscription() {
		t.Fatal("selling plan line not reported as subscription")
	}
}
