package printing

import (
	"bytes"

	"github.com/ledongthuc/pdf"
)

// countPages returns the number of pages in a PDF document. Documents the
// parser rejects fall back to counting page objects in the raw bytes.
func countPages(data []byte) (n int) {
	defer func() {
		if recover() != nil {
			n = estimatePageCount(data)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return estimatePageCount(data)
	}
	if pages := reader.NumPage(); pages > 0 {
		return pages
	}
	return estimatePageCount(data)
}

// estimatePageCount estimates the page count from PDF data
// This is a simple heuristic that counts "/Type /Page" occurrences
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches the prefix above
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	count = count - parentCount
	return max(count, 1)
}
