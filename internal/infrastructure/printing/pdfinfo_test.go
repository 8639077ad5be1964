package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatePageCount(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected int
	}{
		{"single page", "<< /Type /Pages /Count 1 >> << /Type /Page >>", 1},
		{"three pages", "/Type /Pages /Type /Page /Type /Page /Type /Page", 3},
		{"no markers", "not a pdf", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, estimatePageCount([]byte(tt.data)))
		})
	}
}

func TestCountPages_FallsBackOnUnparseableData(t *testing.T) {
	assert.Equal(t, 1, countPages([]byte("garbage")))
	assert.Equal(t, 2, countPages([]byte("%PDF-1.4 /Type /Pages /Type /Page /Type /Page")))
}
