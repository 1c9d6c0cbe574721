package campaign

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPercentDiscount(t *testing.T) {
	cases := []struct {
		amount int64
		want   int64
	}{
		{amount: 20, want: 800},
		{amount: 100, want: 0},
		{amount: 0, want: 1000},
	}
	for _, tc := range cases {
		app, err := NewDiscountApplicator(percentOff(tc.amount, "promo"))
		require.NoError(t, err)
		li := lineItem(1000, 1)
		app.Apply(li)
		require.EqualValues(t, tc.want, li.LinePrice)
		require.Equal(t, "promo", li.Message)
	}
}

func TestFixedDiscountClampsAtZero(t *testing.T) {
	app, err := NewDiscountApplicator(fixedOff("3.00", "three off"))
	require.NoError(t, err)
	li := lineItem(1000, 5)
	app.Apply(li)
	require.EqualValues(t, 0, li.LinePrice)
	require.Equal(t, "three off", li.Message)
}

func TestFixedDiscountPerUnit(t *testing.T) {
	app, err := NewDiscountApplicator(fixedOff("1.50", "bulk"))
	require.NoError(t, err)
	li := lineItem(1000, 2)
	app.Apply(li)
	require.EqualValues(t, 700, li.LinePrice)
	require.Equal(t, 2, li.Quantity)
}

func TestFixedDiscountNeverRaisesPriceOnHugeQuantity(t *testing.T) {
	app, err := NewDiscountApplicator(fixedOff("10.00", "ten off"))
	require.NoError(t, err)
	for _, qty := range []int{math.MaxInt64 / 50_000, math.MaxInt64 / 7, math.MaxInt64} {
		li := lineItem(10_000, qty)
		app.Apply(li)
		require.EqualValues(t, 0, li.LinePrice, "quantity %d", qty)
	}
}

func TestFixedDiscountIgnoresNonPositiveQuantity(t *testing.T) {
	app, err := NewDiscountApplicator(fixedOff("1.00", "one off"))
	require.NoError(t, err)
	require.EqualValues(t, 500, app.Price(500, 0))
	require.EqualValues(t, 500, app.Price(500, -3))
}

func TestDiscountApplicatorValidation(t *testing.T) {
	_, err := NewDiscountApplicator(percentOff(101, ""))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewDiscountApplicator(percentOff(-1, ""))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewDiscountApplicator(fixedOff("-0.01", ""))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewDiscountApplicator(fixedOff("100000000000000000000.00", ""))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewDiscountApplicator(Discount{Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyIsIdempotentForZeroDiscount(t *testing.T) {
	app, err := NewDiscountApplicator(percentOff(0, "noop"))
	require.NoError(t, err)
	li := lineItem(1234, 1)
	app.Apply(li)
	app.Apply(li)
	require.EqualValues(t, 1234, li.LinePrice)
	require.Equal(t, "noop", li.Message)
}
