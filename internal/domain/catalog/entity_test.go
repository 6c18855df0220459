package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
)

func TestAmountUnmarshal(t *testing.T) {
	var e struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1,250.00","b":99.5,"c":null}`), &e))

	assert.Equal(t, Amount("1,250.00"), e.A)
	assert.True(t, e.A.Decimal().Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, Amount("99.5"), e.B)
	assert.Equal(t, Amount(""), e.C)
	assert.True(t, e.C.Decimal().IsZero())
}

func TestLocalize(t *testing.T) {
	e := Entity{
		ID:            4,
		NameEn:        "Perfume",
		NameAr:        "عطر",
		DescriptionEn: "Fresh scent",
		Images:        []string{"a.png", "b.png"},
		Price:         "300",
		Products:      []Entity{{ID: 9, NameEn: "Bottle", NameAr: "زجاجة"}},
	}

	en := e.Localize("en")
	assert.Equal(t, "Perfume", en.Name)
	assert.Equal(t, "a.png", en.Image)

	ar := e.Localize("ar")
	assert.Equal(t, "عطر", ar.Name)
	assert.Equal(t, "Fresh scent", ar.Description, "missing arabic text falls back to english")
	require.Len(t, ar.Products, 1)
	assert.Equal(t, "زجاجة", ar.Products[0].Name)
	assert.False(t, ar.InStock)
}

func TestEntityLineItem(t *testing.T) {
	e := Entity{ID: 3, NameEn: "Kit", NameAr: "طقم", Price: "75.25", LeftInStock: 4, Images: []string{"kit.png"}}

	line := e.LineItem(KindPackages)
	assert.Equal(t, cart.KindPackage, line.Kind)
	assert.Equal(t, "75.25", line.Price)
	assert.Equal(t, "kit.png", line.Image)
	assert.Equal(t, 4, line.LeftInStock)
	assert.Zero(t, line.Quantity)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("packages")
	require.NoError(t, err)
	assert.Equal(t, KindPackages, k)
	assert.Equal(t, KindPackages, KindForCart(k.CartKind()))

	_, err = ParseKind("orders")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFiltersKeyAndValues(t *testing.T) {
	a := Filters{Page: 1, PageSize: 15, NameContains: "tea"}.Normalize()
	b := Filters{Page: 4, PageSize: 15, NameContains: " tea "}.Normalize()
	assert.Equal(t, a.Key(), b.Key(), "page is not part of the filter tuple")

	c := Filters{PageSize: 15, NameContains: "tea", PriceMax: decimal.NewFromInt(50)}.Normalize()
	assert.NotEqual(t, a.Key(), c.Key())

	q := a.Values()
	assert.Equal(t, "0", q.Get("price[gte]"))
	assert.False(t, q.Has("price[lte]"))

	swapped := Filters{PriceMin: decimal.NewFromInt(80), PriceMax: decimal.NewFromInt(20)}.Normalize()
	assert.Equal(t, "20", swapped.PriceMin.String())
	assert.Equal(t, "80", swapped.PriceMax.String())
	assert.Equal(t, 1, swapped.Page)
}
