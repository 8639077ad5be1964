package printing

import "fmt"

const (
	// ReceiptPageWidthMM is the width of the fixed receipt page
	ReceiptPageWidthMM = 80
	// ReceiptPageHeightMM is the height of the fixed receipt page
	ReceiptPageHeightMM = 200
)

// Layout describes how markup is laid out on the page.
//
// Either Format or both WidthMM and HeightMM select the page size; explicit
// dimensions win over Format. Extra carries renderer-native options that are
// applied on top of the computed parameters and is empty on the receipt path.
type Layout struct {
	Format          PaperSize
	WidthMM         float64
	HeightMM        float64
	Margins         Margins
	PrintBackground bool
	Landscape       bool
	Scale           float64
	Extra           map[string]any
}

// ReceiptLayout returns the fixed narrow receipt page layout
func ReceiptLayout() Layout {
	return Layout{
		WidthMM:         ReceiptPageWidthMM,
		HeightMM:        ReceiptPageHeightMM,
		Margins:         ReceiptMargins(),
		PrintBackground: true,
		Scale:           1,
	}
}

// DefaultDocumentLayout returns the layout used for caller-supplied markup
// before caller options are merged in
func DefaultDocumentLayout() Layout {
	return Layout{
		Format:          PaperSizeA4,
		Margins:         DefaultMargins(),
		PrintBackground: true,
		Scale:           1,
	}
}

// PageSize returns the effective page size in millimeters
func (l Layout) PageSize() (width, height float64) {
	if l.WidthMM > 0 && l.HeightMM > 0 {
		return l.WidthMM, l.HeightMM
	}
	format := l.Format
	if format == "" {
		format = PaperSizeA4
	}
	width, height = format.Dimensions()
	if l.WidthMM > 0 {
		width = l.WidthMM
	}
	if l.HeightMM > 0 {
		height = l.HeightMM
	}
	return width, height
}

// Validate checks the closed set of layout options
func (l Layout) Validate() error {
	if l.Format != "" && !l.Format.IsValid() {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid paper format: %s", l.Format), nil)
	}
	if l.WidthMM < 0 || l.HeightMM < 0 {
		return NewError(ErrCodeInvalidInput, "page dimensions cannot be negative", nil)
	}
	if _, err := NewMargins(l.Margins.Top, l.Margins.Right, l.Margins.Bottom, l.Margins.Left); err != nil {
		return err
	}
	if l.Scale != 0 && (l.Scale < 0.1 || l.Scale > 2) {
		return NewError(ErrCodeInvalidInput, "scale must be between 0.1 and 2", nil)
	}
	w, h := l.PageSize()
	if l.Margins.Left+l.Margins.Right >= w || l.Margins.Top+l.Margins.Bottom >= h {
		return NewError(ErrCodeInvalidInput, "margins leave no printable area", nil)
	}
	return nil
}
