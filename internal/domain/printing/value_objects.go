package printing

import (
	"fmt"
	"strconv"
	"strings"
)

// Margins represents the page margins in millimeters
type Margins struct {
	Top    float64 `json:"top"`    // Top margin in mm
	Right  float64 `json:"right"`  // Right margin in mm
	Bottom float64 `json:"bottom"` // Bottom margin in mm
	Left   float64 `json:"left"`   // Left margin in mm
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left float64) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, NewError(ErrCodeInvalidInput, "margins cannot be negative", nil)
	}
	if top > 100 || right > 100 || bottom > 100 || left > 100 {
		return Margins{}, NewError(ErrCodeInvalidInput, "margins cannot exceed 100mm", nil)
	}
	return Margins{
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Left:   left,
	}, nil
}

// UniformMargins returns margins with the same value on every side
func UniformMargins(mm float64) Margins {
	return Margins{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// DefaultMargins returns the default page margins for documents
func DefaultMargins() Margins {
	return UniformMargins(10)
}

// ReceiptMargins returns the small margins used on the receipt page
func ReceiptMargins() Margins {
	return UniformMargins(5)
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// ParseLength converts a CSS-like length ("80mm", "2cm", "1in", "96px" or a
// bare number of millimeters) to millimeters.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}

	units := []struct {
		suffix string
		factor float64
	}{
		{"mm", 1},
		{"cm", 10},
		{"in", 25.4},
		{"px", 25.4 / 96},
	}

	factor := 1.0
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			factor = u.factor
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("length cannot be negative: %s", s)
	}
	return v * factor, nil
}
