package printing

import (
	"context"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	infra "github.com/benossaliha2/cloud-printer/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
)

// DefaultVATRate is the VAT applied to receipt subtotals
var DefaultVATRate = decimal.RequireFromString("0.18")

// ReceiptItem is one line on a receipt
type ReceiptItem struct {
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// LineTotal returns quantity times unit price
func (i ReceiptItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Receipt is the content printed on the fixed receipt page
type Receipt struct {
	Title    string
	Number   printing.JobID
	IssuedAt time.Time
	Items    []ReceiptItem
	VATRate  decimal.Decimal
	Footer   []string
}

// Subtotal returns the sum of all line totals
func (r Receipt) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// VAT returns the VAT amount rounded to cents
func (r Receipt) VAT() decimal.Decimal {
	return r.Subtotal().Mul(r.VATRate).Round(2)
}

// Total returns subtotal plus VAT
func (r Receipt) Total() decimal.Decimal {
	return r.Subtotal().Add(r.VAT())
}

// SampleReceipt returns the market test receipt
func SampleReceipt(number printing.JobID, issuedAt time.Time) Receipt {
	return Receipt{
		Title:    "Market Fişi",
		Number:   number,
		IssuedAt: issuedAt,
		Items: []ReceiptItem{
			{Name: "Ekmek", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00")},
			{Name: "Süt 1Lt", Quantity: 1, UnitPrice: decimal.RequireFromString("12.50")},
			{Name: "Domates 1Kg", Quantity: 1, UnitPrice: decimal.RequireFromString("15.00")},
			{Name: "Peynir 500gr", Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
		},
		VATRate: DefaultVATRate,
		Footer:  []string{"Teşekkür Ederiz!", "Test Yazdırma", "SumatraPDF Printer"},
	}
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: 'Courier New', monospace; font-size: 12pt; margin: 0; line-height: 1.2; width: 70mm; }
  .center { text-align: center; }
  .bold { font-weight: bold; }
  .row { white-space: pre; }
  .line { border-top: 1px dashed #000; margin: 5px 0; }
  .total { font-size: 14pt; font-weight: bold; }
</style>
</head>
<body>
  <div class="center bold">{{upper .Title}}</div>
  <div class="line"></div>
  <div>Tarih: {{formatDate .IssuedAt}}</div>
  <div>Saat: {{formatTime .IssuedAt}}</div>
  <div>Fiş No: {{.Number}}</div>
  <div class="line"></div>
  <div class="bold">ÜRÜNLER:</div>
  {{- range .Items}}
  <div class="row">{{padRight .Name 15}} x{{padRight (printf "%d" .Quantity) 3}}{{padLeft (formatMoney .LineTotal) 10}}</div>
  {{- end}}
  <div class="line"></div>
  <div class="row">{{padRight "Ara Toplam:" 19}}{{padLeft (formatMoney .Subtotal) 10}}</div>
  <div class="row">{{padRight (printf "KDV (%s):" (formatPercent .VATRate)) 19}}{{padLeft (formatMoney .VAT) 10}}</div>
  <div class="line"></div>
  <div class="total center">TOPLAM: {{formatMoney .Total}}</div>
  <div class="line"></div>
  <div class="center">
  {{- range $i, $line := .Footer}}{{if $i}}<br>{{end}}{{$line}}{{end -}}
  </div>
</body>
</html>`

// RenderReceiptHTML renders the receipt markup
func RenderReceiptHTML(ctx context.Context, engine *infra.TemplateEngine, receipt Receipt) (string, error) {
	return engine.RenderString(ctx, "receipt", receiptTemplate, receipt)
}
