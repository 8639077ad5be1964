package printing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// =============================================================================
// Document Options
// =============================================================================

// MarginOptions are page margins as CSS-like lengths ("5mm", "0.5in")
type MarginOptions struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

// DocumentOptions are caller layout options for custom documents. Keys that
// are not listed here are passed to the renderer unchanged.
type DocumentOptions struct {
	Format          string         `json:"format" validate:"omitempty,max=20"`
	Width           string         `json:"width" validate:"omitempty,max=20"`
	Height          string         `json:"height" validate:"omitempty,max=20"`
	Margin          *MarginOptions `json:"margin"`
	PrintBackground *bool          `json:"printBackground"`
	Landscape       *bool          `json:"landscape"`
	Scale           *float64       `json:"scale" validate:"omitempty,gte=0.1,lte=2"`
	Extra           map[string]any `json:"-"`
}

var documentOptionKeys = map[string]struct{}{
	"format": {}, "width": {}, "height": {}, "margin": {},
	"printBackground": {}, "landscape": {}, "scale": {},
}

// ParseDocumentOptions decodes a free-form options object
func ParseDocumentOptions(raw map[string]any) (*DocumentOptions, error) {
	opts := &DocumentOptions{}
	if len(raw) == 0 {
		return opts, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, printing.NewError(printing.ErrCodeInvalidInput, "invalid options", err)
	}
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, printing.NewError(printing.ErrCodeInvalidInput, "invalid options", err)
	}

	for k, v := range raw {
		if _, known := documentOptionKeys[k]; known {
			continue
		}
		if opts.Extra == nil {
			opts.Extra = make(map[string]any)
		}
		opts.Extra[k] = v
	}

	if err := validate.Struct(opts); err != nil {
		return nil, printing.NewError(printing.ErrCodeInvalidInput, "invalid options", err)
	}
	return opts, nil
}

// Layout merges the options over the default document layout
func (o *DocumentOptions) Layout() (printing.Layout, error) {
	layout := printing.DefaultDocumentLayout()
	if o == nil {
		return layout, nil
	}

	if o.Format != "" {
		format, ok := printing.ParsePaperSize(o.Format)
		if !ok {
			return layout, printing.NewError(printing.ErrCodeInvalidInput,
				fmt.Sprintf("unsupported format: %s", o.Format), nil)
		}
		layout.Format = format
	}

	var err error
	if layout.WidthMM, err = parseOptionalLength("width", o.Width); err != nil {
		return layout, err
	}
	if layout.HeightMM, err = parseOptionalLength("height", o.Height); err != nil {
		return layout, err
	}

	if o.Margin != nil {
		sides := []struct {
			name  string
			value string
			dst   *float64
		}{
			{"margin.top", o.Margin.Top, &layout.Margins.Top},
			{"margin.right", o.Margin.Right, &layout.Margins.Right},
			{"margin.bottom", o.Margin.Bottom, &layout.Margins.Bottom},
			{"margin.left", o.Margin.Left, &layout.Margins.Left},
		}
		for _, side := range sides {
			// an omitted side is zero, as with a partially specified CSS margin object
			if *side.dst, err = parseOptionalLength(side.name, side.value); err != nil {
				return layout, err
			}
		}
	}

	if o.PrintBackground != nil {
		layout.PrintBackground = *o.PrintBackground
	}
	if o.Landscape != nil {
		layout.Landscape = *o.Landscape
	}
	if o.Scale != nil {
		layout.Scale = *o.Scale
	}
	layout.Extra = o.Extra

	if err := layout.Validate(); err != nil {
		return layout, err
	}
	return layout, nil
}

func parseOptionalLength(name, value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	mm, err := printing.ParseLength(value)
	if err != nil {
		return 0, printing.NewError(printing.ErrCodeInvalidInput, "invalid "+name, err)
	}
	return mm, nil
}

// =============================================================================
// Results
// =============================================================================

// Document is a rendered PDF kept in memory
type Document struct {
	JobID     printing.JobID
	Data      []byte
	PageCount int
}

// PrinterList is the set of installed printers and the one a print would use
// @name PrintingPrinterList
type PrinterList struct {
	Printers []printing.Device `json:"printers"`
	Count    int               `json:"count"`
	Target   string            `json:"target,omitempty"`
}

// HelperStatus describes the print helper installation
type HelperStatus struct {
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// PrinterStatus summarises the installed printers
type PrinterStatus struct {
	Count     int  `json:"count"`
	Available bool `json:"available"`
}

// Status is the readiness report of the print pipeline
// @name PrintingStatus
type Status struct {
	PrintingEnabled bool          `json:"printing_enabled"`
	Helper          HelperStatus  `json:"helper"`
	Printers        PrinterStatus `json:"printers"`
	TargetPrinter   string        `json:"target_printer,omitempty"`
	Ready           bool          `json:"ready"`
}
