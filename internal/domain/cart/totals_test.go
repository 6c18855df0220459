package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var defaultRules = ShippingRules{
	Fee:                   decimal.NewFromInt(300),
	FreeShippingThreshold: decimal.NewFromInt(3000),
}

func TestComputeTotals_ProductAndPackage(t *testing.T) {
	products := []LineItem{{ID: 1, Kind: KindProduct, Price: "100.00", Quantity: 2, LeftInStock: 5}}
	packages := []LineItem{{ID: 9, Kind: KindPackage, Price: "50.00", Quantity: 1, LeftInStock: 3}}

	totals := ComputeTotals(products, packages, defaultRules)

	assert.Equal(t, "250", totals.Subtotal.String())
	assert.Equal(t, "300", totals.Shipping.String())
	assert.Equal(t, "550", totals.GrandTotal.String())
	assert.False(t, totals.FreeShipping)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, "2750", totals.AmountToFreeShipping.String())
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, nil, defaultRules)

	assert.True(t, totals.Subtotal.IsZero())
	assert.Equal(t, "300", totals.Shipping.String())
	assert.Equal(t, "300", totals.GrandTotal.String())
	assert.False(t, totals.FreeShipping)
	assert.Zero(t, totals.ItemCount)
}

func TestComputeTotals_ThresholdIsStrict(t *testing.T) {
	atThreshold := []LineItem{{ID: 1, Price: "3000", Quantity: 1}}
	totals := ComputeTotals(atThreshold, nil, defaultRules)
	assert.False(t, totals.FreeShipping)
	assert.Equal(t, "3300", totals.GrandTotal.String())

	overThreshold := []LineItem{{ID: 1, Price: "3000.01", Quantity: 1}}
	totals = ComputeTotals(overThreshold, nil, defaultRules)
	assert.True(t, totals.FreeShipping)
	assert.Equal(t, "3000.01", totals.GrandTotal.String())
	assert.Equal(t, "300", totals.Shipping.String())
	assert.True(t, totals.AmountToFreeShipping.IsZero())
}

func TestComputeTotals_MalformedPriceCountsAsZero(t *testing.T) {
	products := []LineItem{
		{ID: 1, Price: "abc", Quantity: 4},
		{ID: 2, Price: "", Quantity: 1},
		{ID: 3, Price: "1,250.50", Quantity: 2},
	}

	totals := ComputeTotals(products, nil, defaultRules)

	assert.Equal(t, "2501", totals.Subtotal.String())
	assert.Equal(t, 7, totals.TotalQuantity)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	products := []LineItem{{ID: 1, Price: "19.99", Quantity: 3}}
	packages := []LineItem{{ID: 2, Price: "5.01", Quantity: 2}}

	first := ComputeTotals(products, packages, defaultRules)
	second := ComputeTotals(products, packages, defaultRules)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.Equal(t, first.FreeShipping, second.FreeShipping)
	assert.Equal(t, "19.99", products[0].Price)
}

func TestComputeTotals_SubtotalMatchesSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		var products, packages []LineItem
		expected := 0.0
		for i := 0; i < rng.Intn(6); i++ {
			price := float64(rng.Intn(500000)) / 100
			qty := rng.Intn(9) + 1
			products = append(products, LineItem{ID: int64(i), Price: fmt.Sprintf("%.2f", price), Quantity: qty})
			expected += price * float64(qty)
		}
		for i := 0; i < rng.Intn(4); i++ {
			price := float64(rng.Intn(500000)) / 100
			qty := rng.Intn(4) + 1
			packages = append(packages, LineItem{ID: int64(i), Kind: KindPackage, Price: fmt.Sprintf("%.2f", price), Quantity: qty})
			expected += price * float64(qty)
		}

		totals := ComputeTotals(products, packages, defaultRules)
		got, _ := totals.Subtotal.Float64()
		assert.InDelta(t, expected, got, 1e-6)

		shipping := decimal.Zero
		if !totals.FreeShipping {
			shipping = totals.Shipping
		}
		assert.True(t, totals.GrandTotal.Equal(totals.Subtotal.Add(shipping)))
	}
}

func TestParsePrice(t *testing.T) {
	tests := map[string]string{
		"100.00": "100",
		" 42.5 ": "42.5",
		"1,000":  "1000",
		"":       "0",
		"free":   "0",
		"12.3.4": "0",
		"-5":     "-5",
		"0.1":    "0.1",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePrice(in).String(), "input %q", in)
	}
}
