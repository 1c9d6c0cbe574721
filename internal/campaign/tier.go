package campaign

import (
	"cmp"
	"slices"

	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

// ResolveTier picks the tier with the highest threshold not above spend.
// Tiers sharing a threshold resolve to the first one in configuration order.
// ok is false when spend is below every threshold.
func ResolveTier(tiers []Tier, spend pricing.Money) (Tier, bool) {
	sorted := slices.Clone(tiers)
	slices.SortStableFunc(sorted, func(a, b Tier) int {
		return cmp.Compare(b.Threshold, a.Threshold)
	})
	for _, t := range sorted {
		if spend >= t.Threshold {
			return t, true
		}
	}
	return Tier{}, false
}
