package campaign

import (
	"strconv"
	"strings"

	"github.com/noah-isme/toko-campaigns/internal/cart"
)

// CustomerTagSelector decides whether a customer qualifies for a spec based
// on the intersection of its tags with the configured tags.
type CustomerTagSelector struct {
	mode MatchMode
	tags map[string]struct{}
}

// NewCustomerTagSelector normalises the target tags once.
func NewCustomerTagSelector(rule CustomerRule) (CustomerTagSelector, error) {
	if !rule.Mode.valid() {
		return CustomerTagSelector{}, configErr("customer_tag_match_type", rule.Mode, "must be include or exclude")
	}
	return CustomerTagSelector{mode: rule.Mode, tags: normalizeSet(rule.Tags)}, nil
}

// Match reports whether the customer satisfies the rule. A nil or untagged
// customer never matches include and always matches exclude.
func (s CustomerTagSelector) Match(c *cart.Customer) bool {
	var tags []string
	if c != nil {
		tags = c.Tags
	}
	hit := intersects(s.tags, tags)
	if s.mode == MatchInclude {
		return hit
	}
	return !hit
}

// ProductSelector decides whether a line item is covered by a spec. The
// predicate is chosen when the selector is built.
type ProductSelector struct {
	kind  SelectorKind
	match func(li *cart.LineItem) bool
}

// NewProductSelector builds the predicate for the rule's kind. Selector
// values are normalised (strings) or parsed (ids) here rather than per call.
func NewProductSelector(rule ProductRule) (ProductSelector, error) {
	switch rule.Kind {
	case SelectAll:
		return ProductSelector{kind: rule.Kind, match: func(*cart.LineItem) bool { return true }}, nil
	case SelectSubscription:
		return ProductSelector{kind: rule.Kind, match: func(li *cart.LineItem) bool { return li.IsSubscription() }}, nil
	}

	if !rule.Mode.valid() {
		return ProductSelector{}, configErr("product_selector_match_type", rule.Mode, "must be include or exclude")
	}
	include := rule.Mode == MatchInclude

	switch rule.Kind {
	case SelectTag:
		set := normalizeSet(rule.Values)
		return ProductSelector{kind: rule.Kind, match: func(li *cart.LineItem) bool {
			return intersects(set, li.Variant.Product.Tags) == include
		}}, nil
	case SelectType:
		set := normalizeSet(rule.Values)
		return ProductSelector{kind: rule.Kind, match: func(li *cart.LineItem) bool {
			_, ok := set[normalize(li.Variant.Product.Type)]
			return ok == include
		}}, nil
	case SelectVendor:
		set := normalizeSet(rule.Values)
		return ProductSelector{kind: rule.Kind, match: func(li *cart.LineItem) bool {
			_, ok := set[normalize(li.Variant.Product.Vendor)]
			return ok == include
		}}, nil
	case SelectProductID:
		ids, err := parseIDs(rule.Values)
		if err != nil {
			return ProductSelector{}, err
		}
		return ProductSelector{kind: rule.Kind, match: func(li *cart.LineItem) bool {
			_, ok := ids[li.Variant.Product.ID]
			return ok == include
		}}, nil
	case SelectVariantID:
		ids, err := parseIDs(rule.Values)
		if err != nil {
			return ProductSelector{}, err
		}
		return ProductSelector{kind: rule.Kind, match: func(li *cart.LineItem) bool {
			_, ok := ids[li.Variant.ID]
			return ok == include
		}}, nil
	default:
		return ProductSelector{}, configErr("product_selector_type", rule.Kind, "invalid product selector type")
	}
}

// Kind returns the attribute the selector tests.
func (s ProductSelector) Kind() SelectorKind { return s.kind }

// Match reports whether the line item is covered.
func (s ProductSelector) Match(li *cart.LineItem) bool {
	if s.match == nil || li == nil {
		return false
	}
	return s.match(li)
}

// Filter returns the matching line items in cart order.
func (s ProductSelector) Filter(items []*cart.LineItem) []*cart.LineItem {
	out := make([]*cart.LineItem, 0, len(items))
	for _, li := range items {
		if s.Match(li) {
			out = append(out, li)
		}
	}
	return out
}

func parseIDs(values []string) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{}, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, configErr("product_selectors", v, "id selectors must be numeric")
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}
