package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyPercentOff(t *testing.T) {
	cases := []struct {
		price Money
		pct   int64
		want  Money
	}{
		{price: 1000, pct: 20, want: 800},
		{price: 1000, pct: 100, want: 0},
		{price: 1000, pct: 0, want: 1000},
		{price: 999, pct: 10, want: 899},
		{price: 995, pct: 10, want: 896},
	}
	for _, tc := range cases {
		got := tc.price.ApplyPercentOff(decimal.NewFromInt(tc.pct))
		if got != tc.want {
			t.Fatalf("%d off %s: expected %s, got %s", tc.pct, tc.price, tc.want, got)
		}
	}
}

func TestFloorZero(t *testing.T) {
	if got := Money(1000).Sub(Money(1500)).FloorZero(); got != Zero {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
	if got := Money(300).FloorZero(); got != 300 {
		t.Fatalf("expected positive amount unchanged, got %s", got)
	}
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney(" 100.00 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m != 10_000 {
		t.Fatalf("expected 10000 minor units, got %d", m)
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatal("expected parse error")
	}
	if got, err := FromDecimal(decimal.RequireFromString("2.345")); err != nil || got != 235 {
		t.Fatalf("expected half-up rounding to 235, got %d (%v)", got, err)
	}
}

func TestParseMoneyRejectsOutOfRange(t *testing.T) {
	for _, raw := range []string{"100000000000000000000.00", "-92233720368547758.09"} {
		if _, err := ParseMoney(raw); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("%s: expected ErrOutOfRange, got %v", raw, err)
		}
	}
	m, err := ParseMoney("92233720368547758.07")
	if err != nil || m != MaxMoney {
		t.Fatalf("expected the largest amount to parse, got %d (%v)", m, err)
	}
}

func TestMulIntSaturates(t *testing.T) {
	cases := []struct {
		m    Money
		n    int
		want Money
	}{
		{m: 1_000, n: 3, want: 3_000},
		{m: 1_000, n: math.MaxInt64 / 50, want: MaxMoney},
		{m: -1_000, n: math.MaxInt64, want: MinMoney},
		{m: MinMoney, n: -1, want: MaxMoney},
		{m: 0, n: math.MaxInt64, want: Zero},
	}
	for _, tc := range cases {
		if got := tc.m.MulInt(tc.n); got != tc.want {
			t.Fatalf("%d * %d: expected %d, got %d", tc.m, tc.n, tc.want, got)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	payload := struct {
		Price Money `json:"price"`
	}{Price: 12_345}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"price":"123.45"}` {
		t.Fatalf("unexpected encoding %s", raw)
	}
}

func TestComputeSummary(t *testing.T) {
	summary := Compute([]Item{
		{Original: 10_000, Final: 9_000},
		{Original: 5_000, Final: 5_000},
	})
	if summary.Subtotal != 15_000 || summary.Discount != 1_000 || summary.Total != 14_000 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
