package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMargins(t *testing.T) {
	tests := []struct {
		name        string
		top         float64
		right       float64
		bottom      float64
		left        float64
		expectError bool
	}{
		{"valid margins", 10, 10, 10, 10, false},
		{"zero margins", 0, 0, 0, 0, false},
		{"max margins", 100, 100, 100, 100, false},
		{"fractional margins", 2.5, 5, 7.5, 10, false},
		{"negative top", -1, 10, 10, 10, true},
		{"negative left", 10, 10, 10, -1, true},
		{"exceeds max right", 10, 101, 10, 10, true},
		{"exceeds max bottom", 10, 10, 101, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margins, err := NewMargins(tt.top, tt.right, tt.bottom, tt.left)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Contains(t, err.Error(), "cannot")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.top, margins.Top)
				assert.Equal(t, tt.right, margins.Right)
				assert.Equal(t, tt.bottom, margins.Bottom)
				assert.Equal(t, tt.left, margins.Left)
			}
		})
	}
}

func TestReceiptMargins(t *testing.T) {
	assert.Equal(t, Margins{5, 5, 5, 5}, ReceiptMargins())
	assert.Equal(t, Margins{10, 10, 10, 10}, DefaultMargins())
}

func TestMargins_IsZero(t *testing.T) {
	assert.True(t, Margins{}.IsZero())
	assert.False(t, Margins{0, 0, 0, 1}.IsZero())
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"80mm", 80, false},
		{" 5mm ", 5, false},
		{"2cm", 20, false},
		{"1in", 25.4, false},
		{"96px", 25.4, false},
		{"12", 12, false},
		{"12.5MM", 12.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-3mm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseLength(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 0.001)
		})
	}
}
