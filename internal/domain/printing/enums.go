package printing

import "strings"

// PaperSize represents a named page format understood by the renderer
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"           // 210mm x 297mm
	PaperSizeA5          PaperSize = "A5"           // 148mm x 210mm
	PaperSizeLetter      PaperSize = "LETTER"       // 216mm x 279mm
	PaperSizeLegal       PaperSize = "LEGAL"        // 216mm x 356mm
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM" // 58mm thermal receipt
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM" // 80mm thermal receipt
)

// ParsePaperSize resolves a format name case-insensitively.
// "a4", "A4" and "Letter" are all accepted.
func ParsePaperSize(name string) (PaperSize, bool) {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(name)))
	return p, p.IsValid()
}

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLetter, PaperSizeLegal, PaperSizeReceipt58MM, PaperSizeReceipt80MM:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height).
// Receipt rolls report the fixed receipt page height.
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLetter:
		return 215.9, 279.4
	case PaperSizeLegal:
		return 215.9, 355.6
	case PaperSizeReceipt58MM:
		return 58, ReceiptPageHeightMM
	case PaperSizeReceipt80MM:
		return 80, ReceiptPageHeightMM
	default:
		return 210, 297 // Default to A4
	}
}

// IsReceipt returns true if this is a receipt paper size
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt58MM || p == PaperSizeReceipt80MM
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{
		PaperSizeA4, PaperSizeA5, PaperSizeLetter, PaperSizeLegal, PaperSizeReceipt58MM, PaperSizeReceipt80MM,
	}
}
