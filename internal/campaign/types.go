package campaign

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

// MatchMode selects whether a rule requires (include) or forbids (exclude)
// a match.
type MatchMode int

const (
	MatchInclude MatchMode = iota + 1
	MatchExclude
)

// ParseMatchMode converts a configuration value into a MatchMode.
func ParseMatchMode(value string) (MatchMode, error) {
	switch normalize(value) {
	case "include":
		return MatchInclude, nil
	case "exclude":
		return MatchExclude, nil
	default:
		return 0, configErr("match_type", value, "must be include or exclude")
	}
}

func (m MatchMode) String() string {
	switch m {
	case MatchInclude:
		return "include"
	case MatchExclude:
		return "exclude"
	default:
		return "unknown"
	}
}

func (m MatchMode) valid() bool { return m == MatchInclude || m == MatchExclude }

// SelectorKind is the closed set of product attributes a ProductSelector
// can test.
type SelectorKind int

const (
	SelectTag SelectorKind = iota + 1
	SelectType
	SelectVendor
	SelectProductID
	SelectVariantID
	SelectSubscription
	SelectAll
)

var selectorKindNames = map[SelectorKind]string{
	SelectTag:          "tag",
	SelectType:         "type",
	SelectVendor:       "vendor",
	SelectProductID:    "product_id",
	SelectVariantID:    "variant_id",
	SelectSubscription: "subscription",
	SelectAll:          "all",
}

// ParseSelectorKind converts a configuration value into a SelectorKind.
// Unknown kinds are configuration errors.
func ParseSelectorKind(value string) (SelectorKind, error) {
	n := normalize(value)
	for kind, name := range selectorKindNames {
		if name == n {
			return kind, nil
		}
	}
	return 0, configErr("product_selector_type", value, "invalid product selector type")
}

func (k SelectorKind) String() string {
	if name, ok := selectorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// DiscountKind is how a discount amount is interpreted.
type DiscountKind int

const (
	DiscountPercent DiscountKind = iota + 1
	DiscountFixed
)

// ParseDiscountKind converts a configuration value into a DiscountKind.
// "dollar" is accepted as an alias of "fixed".
func ParseDiscountKind(value string) (DiscountKind, error) {
	switch normalize(value) {
	case "percent":
		return DiscountPercent, nil
	case "fixed", "dollar":
		return DiscountFixed, nil
	default:
		return 0, configErr("discount_type", value, "must be percent or fixed")
	}
}

func (k DiscountKind) String() string {
	switch k {
	case DiscountPercent:
		return "percent"
	case DiscountFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// CustomerRule gates a spec on the customer's tags.
type CustomerRule struct {
	Mode MatchMode
	Tags []string
}

// IsZero reports whether no customer rule was configured.
func (r CustomerRule) IsZero() bool {
	return r.Mode == 0 && len(r.Tags) == 0
}

// ProductRule picks the line items a spec applies to.
type ProductRule struct {
	Mode   MatchMode
	Kind   SelectorKind
	Values []string
}

// Discount is one resolved discount: how much, how, and what to tell the
// shopper.
type Discount struct {
	Kind    DiscountKind
	Amount  decimal.Decimal
	Message string
}

// TagDiscountSpec discounts matching line items for customers matching a
// tag rule.
type TagDiscountSpec struct {
	Customer CustomerRule
	Product  ProductRule
	Discount Discount
}

// Tier pairs a spend threshold with the discount it unlocks.
type Tier struct {
	Threshold pricing.Money
	Discount  Discount
}

// TieredSpendSpec discounts matching line items once their combined spend
// reaches a tier threshold.
type TieredSpendSpec struct {
	Customer CustomerRule
	Product  ProductRule
	Tiers    []Tier
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalize(v)] = struct{}{}
	}
	return set
}

func intersects(set map[string]struct{}, values []string) bool {
	for _, v := range values {
		if _, ok := set[normalize(v)]; ok {
			return true
		}
	}
	return false
}
