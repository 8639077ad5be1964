package printing

import (
	"context"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Layout defines page size, margins and renderer-native extras
	Layout printing.Layout
	// OutputPath is where the PDF is written. Empty keeps the document in memory only.
	OutputPath string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// Data is the raw PDF file content
	Data []byte
	// Path is the file the PDF was written to, empty for in-memory renders
	Path string
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
}
