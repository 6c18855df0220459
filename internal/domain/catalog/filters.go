// internal/domain/catalog/filters.go
package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Filters is one catalog query. Everything except Page forms the filter
// tuple that keys the accumulated result list.
type Filters struct {
	Page         int
	PageSize     int
	NameContains string
	PriceMin     decimal.Decimal
	PriceMax     decimal.Decimal // Zero means no upper bound
}

// Normalize trims the search text and orders the price bounds
func (f Filters) Normalize() Filters {
	f.NameContains = strings.TrimSpace(f.NameContains)
	if f.PriceMin.IsNegative() {
		f.PriceMin = decimal.Zero
	}
	if f.PriceMax.IsNegative() {
		f.PriceMax = decimal.Zero
	}
	if f.PriceMax.IsPositive() && f.PriceMin.GreaterThan(f.PriceMax) {
		f.PriceMin, f.PriceMax = f.PriceMax, f.PriceMin
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}

// Key identifies the filter tuple
func (f Filters) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", f.PageSize, f.NameContains, f.PriceMin.String(), f.PriceMax.String())
}

// Values renders the upstream query string
func (f Filters) Values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("paginate", strconv.Itoa(f.PageSize))
	if f.NameContains != "" {
		q.Set("name", f.NameContains)
	}
	q.Set("price[gte]", f.PriceMin.String())
	if f.PriceMax.IsPositive() {
		q.Set("price[lte]", f.PriceMax.String())
	}
	return q
}
