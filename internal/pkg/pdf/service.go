// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	OrderDate     string
	Language      string
	Direction     string
	Currency      string
	Order         *order.Order
	Lines         []ReceiptLine
	Subtotal      string
	Shipping      string
	Total         string
	Company       CompanyInfo
}

// ReceiptLine is one formatted row of the items table
type ReceiptLine struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// BuildReceiptData formats the order for the receipt template
func (s *Service) BuildReceiptData(o *order.Order, lang string) ReceiptData {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s", o.OrderNumber),
		IssuedAt:      s.now().Format("January 2, 2006"),
		OrderDate:     o.CreatedAt.Format("January 2, 2006"),
		Language:      lang,
		Direction:     "ltr",
		Currency:      s.config.Store.Currency,
		Order:         o,
		Subtotal:      o.Subtotal.Decimal().StringFixed(2),
		Shipping:      o.Shipping.Decimal().StringFixed(2),
		Total:         o.Total.Decimal().StringFixed(2),
		Company: CompanyInfo{
			Name:    s.config.Receipt.CompanyName,
			Address: s.config.Receipt.CompanyAddress,
			Phone:   s.config.Receipt.CompanyPhone,
			Email:   s.config.Receipt.CompanyEmail,
			Website: s.config.Receipt.CompanyWebsite,
		},
	}
	if lang == "ar" {
		data.Direction = "rtl"
	}

	for _, item := range o.Items {
		data.Lines = append(data.Lines, ReceiptLine{
			Name:     item.DisplayName(lang),
			Quantity: item.Quantity,
			Price:    item.Price.Decimal().StringFixed(2),
			Total:    item.LineTotal().StringFixed(2),
		})
	}
	return data
}

// RenderReceiptHTML renders the receipt as HTML
func (s *Service) RenderReceiptHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceipt generates a PDF receipt for an order
func (s *Service) GenerateReceipt(o *order.Order, lang string) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderReceiptHTML(s.BuildReceiptData(o, lang))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	page.Encoding.Set("UTF-8")

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html lang="{{.Language}}" dir="{{.Direction}}">
<head>
<meta charset="UTF-8">
<title>Receipt {{.ReceiptNumber}}</title>
<style>
  * { box-sizing: border-box; }
  body { font-family: "DejaVu Sans", Tahoma, sans-serif; font-size: 13px; color: #1f2933; margin: 0; padding: 24px 32px; }
  .brand { display: flex; justify-content: space-between; border-bottom: 3px solid #0f766e; padding-bottom: 12px; }
  .brand h1 { margin: 0; font-size: 22px; color: #0f766e; }
  .brand small { display: block; color: #52606d; line-height: 1.5; }
  .meta { margin: 18px 0; }
  .meta span { display: inline-block; min-width: 48%; padding: 3px 0; }
  .meta b { color: #52606d; font-weight: normal; }
  h2 { font-size: 13px; text-transform: uppercase; letter-spacing: 1px; color: #0f766e; margin: 22px 0 6px; }
  table.lines { width: 100%; border-collapse: collapse; }
  table.lines th { text-align: start; font-weight: normal; color: #52606d; border-bottom: 1px solid #9aa5b1; padding: 6px 4px; }
  table.lines td { border-bottom: 1px dashed #cbd2d9; padding: 7px 4px; }
  table.lines .num { text-align: end; white-space: nowrap; }
  table.sums { margin-inline-start: auto; margin-top: 14px; min-width: 45%; }
  table.sums td { padding: 4px; }
  table.sums td.num { text-align: end; }
  table.sums tr.grand td { border-top: 2px solid #1f2933; font-size: 16px; font-weight: bold; padding-top: 8px; }
  .note { color: #52606d; font-style: italic; }
  .thanks { margin-top: 36px; text-align: center; color: #7b8794; font-size: 11px; }
</style>
</head>
<body>
  <div class="brand">
    <div>
      <h1>{{.Company.Name}}</h1>
      <small>{{.Company.Address}}</small>
      <small>{{.Company.Website}}</small>
    </div>
    <div>
      <small>{{.Company.Phone}}</small>
      <small>{{.Company.Email}}</small>
    </div>
  </div>

  <div class="meta">
    <span><b>Receipt</b> {{.ReceiptNumber}}</span>
    <span><b>Issued</b> {{.IssuedAt}}</span>
    <span><b>Order</b> {{.Order.OrderNumber}} / {{.OrderDate}}</span>
    <span><b>Status</b> {{.Order.Status}}</span>
    <span><b>Payment</b> {{.Order.PaymentMethod}}</span>
  </div>

  <h2>Delivery</h2>
  <div>{{.Order.Address}}</div>
  <div>{{.Order.Phone}}</div>
  {{if .Order.Notes}}<div class="note">{{.Order.Notes}}</div>{{end}}

  <h2>Items</h2>
  <table class="lines">
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr>
    {{range .Lines}}
    <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Price}}</td><td class="num">{{.Total}}</td></tr>
    {{end}}
  </table>

  <table class="sums">
    <tr><td>Subtotal</td><td class="num">{{.Subtotal}} {{.Currency}}</td></tr>
    <tr><td>Shipping</td><td class="num">{{.Shipping}} {{.Currency}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">{{.Total}} {{.Currency}}</td></tr>
  </table>

  <div class="thanks">Thank you for your order. Questions? {{.Company.Email}} {{.Company.Phone}}</div>
</body>
</html>
`
