package campaign

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/toko-campaigns/internal/pricing"
)

//go:embed default_campaigns.yaml
var defaultTables []byte

type tablesDoc struct {
	Campaigns []campaignDoc `yaml:"campaigns" validate:"required,min=1,dive"`
}

type campaignDoc struct {
	Kind      string           `yaml:"kind" validate:"required,oneof=customer_tag tiered_spend"`
	Name      string           `yaml:"name"`
	Discounts []tagDiscountDoc `yaml:"discounts" validate:"required_if=Kind customer_tag,excluded_if=Kind tiered_spend,dive"`
	Tiered    []tieredSpendDoc `yaml:"tiered" validate:"required_if=Kind tiered_spend,excluded_if=Kind customer_tag,dive"`
}

type tagDiscountDoc struct {
	CustomerTagMatchType     string       `yaml:"customer_tag_match_type" validate:"required"`
	CustomerTags             []string     `yaml:"customer_tags"`
	ProductSelectorMatchType string       `yaml:"product_selector_match_type"`
	ProductSelectorType      string       `yaml:"product_selector_type" validate:"required"`
	ProductSelectors         scalarList   `yaml:"product_selectors"`
	DiscountType             string       `yaml:"discount_type" validate:"required"`
	DiscountAmount           *yamlDecimal `yaml:"discount_amount" validate:"required"`
	DiscountMessage          string       `yaml:"discount_message"`
}

type tieredSpendDoc struct {
	CustomerTagMatchType     string     `yaml:"customer_tag_match_type"`
	CustomerTags             []string   `yaml:"customer_tags"`
	ProductSelectorMatchType string     `yaml:"product_selector_match_type"`
	ProductSelectorType      string     `yaml:"product_selector_type" validate:"required"`
	ProductSelectors         scalarList `yaml:"product_selectors"`
	Tiers                    []tierDoc  `yaml:"tiers" validate:"required,min=1,dive"`
}

type tierDoc struct {
	Threshold       *yamlDecimal `yaml:"threshold" validate:"required"`
	DiscountType    string       `yaml:"discount_type" validate:"required"`
	DiscountAmount  *yamlDecimal `yaml:"discount_amount" validate:"required"`
	DiscountMessage string       `yaml:"discount_message"`
}

// scalarList accepts selector lists mixing strings and numbers.
type scalarList []string

func (l *scalarList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*l = nil
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list", node.Line)
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: selector values must be scalars", item.Line)
		}
		out = append(out, item.Value)
	}
	*l = out
	return nil
}

type yamlDecimal struct {
	decimal.Decimal
}

func (d *yamlDecimal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Decimal = parsed
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultTables builds a runner from the built-in campaign tables.
func DefaultTables() (*Runner, error) {
	return ParseTables(defaultTables)
}

// LoadTablesFile reads and builds a runner from a YAML campaign table.
func LoadTablesFile(path string) (*Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes YAML campaign tables into a validated runner. Every
// failure wraps ErrInvalidConfig.
func ParseTables(data []byte) (*Runner, error) {
	var doc tablesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode campaign tables: %v", ErrInvalidConfig, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, validationError(err)
	}

	campaigns := make([]Campaign, 0, len(doc.Campaigns))
	for i, cd := range doc.Campaigns {
		c, err := cd.build()
		if err != nil {
			return nil, fmt.Errorf("campaigns[%d]: %w", i, err)
		}
		campaigns = append(campaigns, c)
	}
	runner := NewRunner(campaigns...)
	if err := runner.Validate(); err != nil {
		return nil, err
	}
	return runner, nil
}

func (cd campaignDoc) build() (Campaign, error) {
	switch cd.Kind {
	case KindCustomerTag:
		specs := make([]TagDiscountSpec, 0, len(cd.Discounts))
		for i, d := range cd.Discounts {
			spec, err := d.spec()
			if err != nil {
				return nil, fmt.Errorf("discounts[%d]: %w", i, err)
			}
			specs = append(specs, spec)
		}
		return NewCustomerTagDiscountCampaign(cd.Name, specs), nil
	case KindTieredSpend:
		specs := make([]TieredSpendSpec, 0, len(cd.Tiered))
		for i, d := range cd.Tiered {
			spec, err := d.spec()
			if err != nil {
				return nil, fmt.Errorf("tiered[%d]: %w", i, err)
			}
			specs = append(specs, spec)
		}
		return NewTieredSpendDiscountCampaign(cd.Name, specs), nil
	default:
		return nil, configErr("kind", cd.Kind, "unknown campaign kind")
	}
}

func (d tagDiscountDoc) spec() (TagDiscountSpec, error) {
	customerMode, err := ParseMatchMode(d.CustomerTagMatchType)
	if err != nil {
		return TagDiscountSpec{}, err
	}
	product, err := productRule(d.ProductSelectorMatchType, d.ProductSelectorType, d.ProductSelectors)
	if err != nil {
		return TagDiscountSpec{}, err
	}
	discount, err := discountFrom(d.DiscountType, d.DiscountAmount, d.DiscountMessage)
	if err != nil {
		return TagDiscountSpec{}, err
	}
	return TagDiscountSpec{
		Customer: CustomerRule{Mode: customerMode, Tags: d.CustomerTags},
		Product:  product,
		Discount: discount,
	}, nil
}

func (d tieredSpendDoc) spec() (TieredSpendSpec, error) {
	var customer CustomerRule
	if strings.TrimSpace(d.CustomerTagMatchType) != "" || len(d.CustomerTags) > 0 {
		mode := MatchExclude
		if strings.TrimSpace(d.CustomerTagMatchType) != "" {
			parsed, err := ParseMatchMode(d.CustomerTagMatchType)
			if err != nil {
				return TieredSpendSpec{}, err
			}
			mode = parsed
		}
		customer = CustomerRule{Mode: mode, Tags: d.CustomerTags}
	}
	product, err := productRule(d.ProductSelectorMatchType, d.ProductSelectorType, d.ProductSelectors)
	if err != nil {
		return TieredSpendSpec{}, err
	}
	tiers := make([]Tier, 0, len(d.Tiers))
	for i, td := range d.Tiers {
		discount, err := discountFrom(td.DiscountType, td.DiscountAmount, td.DiscountMessage)
		if err != nil {
			return TieredSpendSpec{}, fmt.Errorf("tiers[%d]: %w", i, err)
		}
		threshold, err := pricing.FromDecimal(td.Threshold.Decimal)
		if err != nil {
			return TieredSpendSpec{}, fmt.Errorf("tiers[%d]: %w", i, configErr("threshold", td.Threshold.Decimal, "out of range"))
		}
		tiers = append(tiers, Tier{Threshold: threshold, Discount: discount})
	}
	return TieredSpendSpec{Customer: customer, Product: product, Tiers: tiers}, nil
}

func productRule(mode, kind string, values []string) (ProductRule, error) {
	k, err := ParseSelectorKind(kind)
	if err != nil {
		return ProductRule{}, err
	}
	rule := ProductRule{Kind: k, Values: values}
	if k == SelectAll || k == SelectSubscription {
		// match type is ignored for these kinds
		if m, err := ParseMatchMode(mode); err == nil {
			rule.Mode = m
		}
		return rule, nil
	}
	rule.Mode, err = ParseMatchMode(mode)
	if err != nil {
		return ProductRule{}, err
	}
	return rule, nil
}

func discountFrom(kind string, amount *yamlDecimal, message string) (Discount, error) {
	k, err := ParseDiscountKind(kind)
	if err != nil {
		return Discount{}, err
	}
	return Discount{Kind: k, Amount: amount.Decimal, Message: message}, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	joined := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		joined = append(joined, configErr(fe.Namespace(), nil, "failed "+fe.Tag()))
	}
	return errors.Join(joined...)
}
