package campaign

import (
	"fmt"

	"github.com/noah-isme/toko-campaigns/internal/cart"
)

const (
	KindCustomerTag = "customer_tag"
	KindTieredSpend = "tiered_spend"
)

// Campaign is one rule set evaluated against a cart.
type Campaign interface {
	// Name identifies the campaign in logs, metrics and responses.
	Name() string
	// Kind is KindCustomerTag or KindTieredSpend.
	Kind() string
	// Specs returns the number of configured specs.
	Specs() int
	// Validate builds every selector and applicator once without touching a cart.
	Validate() error
	// Run applies the campaign to the cart in place and returns how many
	// line-item discounts it applied.
	Run(c *cart.Cart) (int, error)
}

// CampaignResult records the outcome of one campaign within a run.
type CampaignResult struct {
	Name         string `json:"name"`
	Applications int    `json:"applications"`
}

// Report summarises a runner pass over one cart.
type Report struct {
	Campaigns []CampaignResult `json:"campaigns"`
}

// Applications returns the total number of line-item discounts applied.
func (r Report) Applications() int {
	total := 0
	for _, c := range r.Campaigns {
		total += c.Applications
	}
	return total
}

// Runner executes an ordered list of campaigns against one cart at a time.
// It holds no per-run state and may be shared across goroutines evaluating
// different carts.
type Runner struct {
	campaigns []Campaign
}

// NewRunner keeps the campaigns in the order given.
func NewRunner(campaigns ...Campaign) *Runner {
	kept := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &Runner{campaigns: kept}
}

// Campaigns returns the configured campaigns in execution order.
func (r *Runner) Campaigns() []Campaign {
	if r == nil {
		return nil
	}
	out := make([]Campaign, len(r.campaigns))
	copy(out, r.campaigns)
	return out
}

// CampaignCount returns the number of configured campaigns.
func (r *Runner) CampaignCount() int {
	if r == nil {
		return 0
	}
	return len(r.campaigns)
}

// Validate checks every campaign's configuration.
func (r *Runner) Validate() error {
	if r == nil {
		return nil
	}
	for _, c := range r.campaigns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("campaign %q: %w", c.Name(), err)
		}
	}
	return nil
}

// Run executes each campaign sequentially on the same cart. Later campaigns
// see prices rewritten by earlier ones. The first error stops the run;
// changes made by completed campaigns are kept and the partial report is
// returned with the error.
func (r *Runner) Run(c *cart.Cart) (Report, error) {
	if c == nil {
		return Report{}, ErrNilCart
	}
	var report Report
	if r == nil {
		return report, nil
	}
	for _, campaign := range r.campaigns {
		applied, err := campaign.Run(c)
		report.Campaigns = append(report.Campaigns, CampaignResult{Name: campaign.Name(), Applications: applied})
		if err != nil {
			return report, fmt.Errorf("campaign %q: %w", campaign.Name(), err)
		}
	}
	return report, nil
}
