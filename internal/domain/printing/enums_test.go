package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaperSize_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		paperSize PaperSize
		expected  bool
	}{
		{"valid A4", PaperSizeA4, true},
		{"valid A5", PaperSizeA5, true},
		{"valid LETTER", PaperSizeLetter, true},
		{"valid RECEIPT_58MM", PaperSizeReceipt58MM, true},
		{"valid RECEIPT_80MM", PaperSizeReceipt80MM, true},
		{"invalid empty", PaperSize(""), false},
		{"invalid A3", PaperSize("A3"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.paperSize.IsValid())
		})
	}
}

func TestParsePaperSize(t *testing.T) {
	p, ok := ParsePaperSize("a4")
	assert.True(t, ok)
	assert.Equal(t, PaperSizeA4, p)

	p, ok = ParsePaperSize(" Letter ")
	assert.True(t, ok)
	assert.Equal(t, PaperSizeLetter, p)

	_, ok = ParsePaperSize("tabloid")
	assert.False(t, ok)
}

func TestPaperSize_Dimensions(t *testing.T) {
	tests := []struct {
		paperSize PaperSize
		width     float64
		height    float64
	}{
		{PaperSizeA4, 210, 297},
		{PaperSizeA5, 148, 210},
		{PaperSizeReceipt58MM, 58, ReceiptPageHeightMM},
		{PaperSizeReceipt80MM, 80, ReceiptPageHeightMM},
		{PaperSize("UNKNOWN"), 210, 297},
	}

	for _, tt := range tests {
		t.Run(tt.paperSize.String(), func(t *testing.T) {
			w, h := tt.paperSize.Dimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestPaperSize_IsReceipt(t *testing.T) {
	assert.True(t, PaperSizeReceipt58MM.IsReceipt())
	assert.True(t, PaperSizeReceipt80MM.IsReceipt())
	assert.False(t, PaperSizeA4.IsReceipt())
}

func TestAllPaperSizes(t *testing.T) {
	sizes := AllPaperSizes()
	assert.Len(t, sizes, 6)
	for _, s := range sizes {
		assert.True(t, s.IsValid())
	}
}
