package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/noah-isme/toko-campaigns/internal/campaign"
)

func TestRunReadsStdinWithDefaultTables(t *testing.T) {
	t.Setenv("CAMPAIGNS_FILE", "")
	t.Setenv("CURRENCY_CODE", "")
	cart := `{"customer":{"id":1,"tags":["25%US"]},"lineItems":[{"id":"a","quantity":1,"linePrice":"40.00","variant":{"id":1,"product":{"id":1,"tags":[]}}}]}`

	var out, errOut bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader(cart), &out, &errOut))

	var resp struct {
		Currency  string `json:"currency"`
		LineItems []struct {
			LinePrice string `json:"linePrice"`
			Message   string `json:"message"`
		} `json:"lineItems"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, "USD", resp.Currency)
	require.Equal(t, "30.00", resp.LineItems[0].LinePrice)
	require.Equal(t, "25% Loyalty Discount!", resp.LineItems[0].Message)
}

func TestRunWithCampaignFile(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "campaigns.yaml")
	require.NoError(t, os.WriteFile(tables, []byte(`
campaigns:
  - kind: customer_tag
    name: staff
    discounts:
      - customer_tag_match_type: include
        customer_tags: ["staff"]
        product_selector_match_type: include
        product_selector_type: all
        product_selectors: []
        discount_type: dollar
        discount_amount: 5
        discount_message: "Staff $5 off"
`), 0o600))
	cartPath := filepath.Join(dir, "cart.json")
	require.NoError(t, os.WriteFile(cartPath, []byte(`{"customer":{"id":9,"tags":["Staff"]},"lineItems":[{"id":"a","quantity":2,"linePrice":"30.00"}]}`), 0o600))

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-cart", cartPath, "-campaigns", tables, "-currency", "cad"}, nil, &out, &errOut))
	require.Contains(t, out.String(), `"linePrice": "20.00"`)
	require.Contains(t, out.String(), `"currency": "CAD"`)
}

func TestRunReportsInvalidTables(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(tables, []byte("campaigns:\n  - kind: mystery\n    name: x\n"), 0o600))

	var out, errOut bytes.Buffer
	err := run([]string{"-campaigns", tables}, strings.NewReader(`{"lineItems":[]}`), &out, &errOut)
	require.ErrorIs(t, err, campaign.ErrInvalidConfig)
	require.Zero(t, out.Len())
}

func TestRunTraceWritesSpansToStderr(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	t.Setenv("CAMPAIGNS_FILE", "")

	var out, errOut bytes.Buffer
	cart := `{"customer":null,"lineItems":[{"id":"a","quantity":1,"linePrice":"10.00"}]}`
	require.NoError(t, run([]string{"-trace"}, strings.NewReader(cart), &out, &errOut))
	require.Contains(t, errOut.String(), "campaign.evaluate")
	require.Contains(t, out.String(), `"linePrice": "10.00"`)
}

func TestRunRejectsUnknownFlags(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-timeout", "1s"}, strings.NewReader(`{"lineItems":[]}`), &out, &errOut)
	require.Error(t, err)
	require.Contains(t, errOut.String(), "flag provided but not defined: -timeout")
	require.Zero(t, out.Len())
}
