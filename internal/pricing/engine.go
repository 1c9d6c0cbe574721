package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value stored in minor units.
type Money int64

// Zero is the additive identity for Money.
const Zero Money = 0

// Scale is the number of minor-unit digits carried by Money.
const Scale = 2

// MaxMoney and MinMoney bound the representable amounts.
const (
	MaxMoney Money = math.MaxInt64
	MinMoney Money = math.MinInt64
)

// ErrOutOfRange is returned for amounts that do not fit in Money.
var ErrOutOfRange = errors.New("pricing: amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Add returns m + o.
func (m Money) Add(o Money) Money { return m + o }

// Sub returns m - o. The result may be negative; use FloorZero to clamp.
func (m Money) Sub(o Money) Money { return m - o }

// MulInt returns m multiplied by an integer factor such as a quantity. The
// product saturates at MaxMoney or MinMoney instead of wrapping.
func (m Money) MulInt(n int) Money {
	if m == 0 || n == 0 {
		return Zero
	}
	k := Money(n)
	if product := m * k; product/k == m && !(k == -1 && m == MinMoney) {
		return product
	}
	if (m > 0) == (k > 0) {
		return MaxMoney
	}
	return MinMoney
}

// FloorZero clamps negative values to zero.
func (m Money) FloorZero() Money {
	if m < 0 {
		return Zero
	}
	return m
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m == 0 }

// ApplyPercentOff returns m reduced by pct percent, rounded half away from zero
// to the nearest minor unit.
func (m Money) ApplyPercentOff(pct decimal.Decimal) Money {
	factor := hundred.Sub(pct).Div(hundred)
	return Money(decimal.NewFromInt(int64(m)).Mul(factor).Round(0).IntPart())
}

// Decimal converts the amount to major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -Scale)
}

// String formats the amount in major units with two decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

// MarshalText renders the amount as a decimal string.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a major-unit decimal string.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FromDecimal converts a major-unit amount into minor units. Sub-cent
// precision is rounded half away from zero. Amounts outside the Money range
// return ErrOutOfRange.
func FromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(Scale).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Zero, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return Money(minor.IntPart()), nil
}

// ParseMoney parses a major-unit decimal string such as "100.00".
func ParseMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Zero, fmt.Errorf("pricing: empty amount")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Zero, fmt.Errorf("pricing: parse amount %q: %w", value, err)
	}
	return FromDecimal(d)
}

// Item pairs the price of a line before and after discounts.
type Item struct {
	Original Money
	Final    Money
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	Discount Money `json:"discount"`
	Total    Money `json:"total"`
}

// Compute calculates cart totals given the original and discounted line prices.
func Compute(items []Item) Summary {
	var subtotal, total Money
	for _, it := range items {
		subtotal += it.Original
		total += it.Final
	}
	discount := subtotal - total
	if discount < 0 {
		discount = 0
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}
