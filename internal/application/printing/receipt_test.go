package printing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSampleReceipt_Totals(t *testing.T) {
	r := SampleReceipt("1", time.Now())

	assert.Equal(t, "78.50", r.Subtotal().StringFixed(2))
	assert.Equal(t, "14.13", r.VAT().StringFixed(2))
	assert.Equal(t, "92.63", r.Total().StringFixed(2))
}

func TestReceiptItem_LineTotal(t *testing.T) {
	item := ReceiptItem{Name: "Ekmek", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00")}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("6")))
}

func TestReceipt_Empty(t *testing.T) {
	r := Receipt{VATRate: DefaultVATRate}
	assert.True(t, r.Total().IsZero())
}
