// internal/domain/cart/totals.go
package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ShippingRules are the store constants the aggregator works with
type ShippingRules struct {
	Fee                   decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// Totals represents calculated cart totals. They are derived on every change and never stored.
//
// GrandTotal == Subtotal + Shipping unless FreeShipping, in which case GrandTotal == Subtotal.
// Shipping always carries the configured fee so the client can show what was waived.
type Totals struct {
	ItemCount            int             `json:"item_count"`     // Number of distinct lines
	TotalQuantity        int             `json:"total_quantity"` // Sum of all quantities
	Subtotal             decimal.Decimal `json:"subtotal"`
	Shipping             decimal.Decimal `json:"shipping"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
	FreeShipping         bool            `json:"free_shipping"`
	AmountToFreeShipping decimal.Decimal `json:"amount_to_free_shipping"` // Zero once shipping is free
}

// ParsePrice parses a decimal price string. Grouping commas and surrounding
// whitespace are tolerated; anything else that does not parse counts as zero.
func ParsePrice(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ComputeTotals derives the cart totals from the product and package lines.
// It has no side effects and never fails: malformed prices count as zero.
func ComputeTotals(products, packages []LineItem, rules ShippingRules) Totals {
	var totals Totals

	subtotal := decimal.Zero
	for _, lines := range [][]LineItem{products, packages} {
		for _, item := range lines {
			totals.ItemCount++
			totals.TotalQuantity += item.Quantity
			subtotal = subtotal.Add(ParsePrice(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	totals.Subtotal = subtotal
	totals.Shipping = rules.Fee
	// Orders over the threshold ship free; an order exactly at it still pays.
	totals.FreeShipping = subtotal.GreaterThan(rules.FreeShippingThreshold)

	if totals.FreeShipping {
		totals.GrandTotal = subtotal
		totals.AmountToFreeShipping = decimal.Zero
	} else {
		totals.GrandTotal = subtotal.Add(rules.Fee)
		totals.AmountToFreeShipping = rules.FreeShippingThreshold.Sub(subtotal)
	}

	return totals
}
