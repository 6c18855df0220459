package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
)

func testOrder() *order.Order {
	return &order.Order{
		ID:            12,
		OrderNumber:   "SF-1002",
		Status:        order.StatusConfirmed,
		PaymentMethod: order.PaymentCash,
		Address:       "12 Nile St, Cairo",
		Phone:         "+201001234567",
		Items: []order.Item{
			{Kind: "product", ItemID: 1, Name: "Serum", NameAr: "سيروم", Price: "250", Quantity: 2},
			{Kind: "package", ItemID: 5, Name: "Gift <set>", Price: "1,000.5", Quantity: 1},
		},
		Subtotal:  "1500.5",
		Shipping:  "300",
		Total:     "1800.5",
		CreatedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func testService() *Service {
	s := NewService(&config.Config{
		Store:   config.StoreConfig{Currency: "EGP"},
		Receipt: config.ReceiptConfig{CompanyName: "Storefront", CompanyEmail: "care@example.com"},
	})
	s.now = func() time.Time { return time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestBuildReceiptData(t *testing.T) {
	data := testService().BuildReceiptData(testOrder(), "en")

	assert.Equal(t, "RCPT-SF-1002", data.ReceiptNumber)
	assert.Equal(t, "March 5, 2026", data.IssuedAt)
	assert.Equal(t, "ltr", data.Direction)
	require.Len(t, data.Lines, 2)
	assert.Equal(t, "500.00", data.Lines[0].Total)
	assert.Equal(t, "1000.50", data.Lines[1].Price)
	assert.Equal(t, "1800.50", data.Total)
}

func TestRenderReceiptHTML(t *testing.T) {
	s := testService()

	html, err := s.RenderReceiptHTML(s.BuildReceiptData(testOrder(), "ar"))
	require.NoError(t, err)

	assert.Contains(t, html, `dir="rtl"`)
	assert.Contains(t, html, "سيروم")
	assert.Contains(t, html, "Gift &lt;set&gt;")
	assert.Contains(t, html, "1800.50 EGP")
	assert.Contains(t, html, "care@example.com")
}
