package printing

import (
	"strconv"
	"strings"
	"time"
)

// Placeholders recognised in DeliveryMethod argument templates
const (
	PlaceholderFile    = "{file}"
	PlaceholderPrinter = "{printer}"
)

// DefaultPrinterLabel is reported as the printer of a delivery that targeted
// whatever the OS considers its default device
const DefaultPrinterLabel = "Default printer"

// DeliveryMethod is one way of invoking the print helper against a file
type DeliveryMethod struct {
	// Name is the human-readable method name reported to callers
	Name string
	// Args is the argument template passed to the helper
	Args []string
	// Timeout bounds a single invocation of the helper
	Timeout time.Duration
	// SettleDelay is waited after a successful invocation because the helper
	// may exit before the device has consumed the job
	SettleDelay time.Duration
	// Verified is false when success only means a dialog was opened
	Verified bool
	// TargetsDefault is true when the method ignores the chosen printer
	TargetsDefault bool
}

// ExpandArgs substitutes the file and printer placeholders. Each argument is
// passed to the helper as a single argv entry, so names with spaces need no quoting.
func (m DeliveryMethod) ExpandArgs(filePath, printerName string) []string {
	replacer := strings.NewReplacer(PlaceholderFile, filePath, PlaceholderPrinter, printerName)
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = replacer.Replace(a)
	}
	return args
}

// PrinterLabel returns the printer name reported for a delivery with this method
func (m DeliveryMethod) PrinterLabel(printerName string) string {
	if m.TargetsDefault || printerName == "" {
		return DefaultPrinterLabel
	}
	return printerName
}

// DefaultDeliveryMethods returns the SumatraPDF delivery chain in priority order
func DefaultDeliveryMethods() []DeliveryMethod {
	return []DeliveryMethod{
		{
			Name:        "SumatraPDF Standard",
			Args:        []string{"-print-to", PlaceholderPrinter, PlaceholderFile, "-exit-when-done", "-silent"},
			Timeout:     30 * time.Second,
			SettleDelay: 8 * time.Second,
			Verified:    true,
		},
		{
			Name:           "SumatraPDF Default Print",
			Args:           []string{"-print-to-default", PlaceholderFile, "-exit-when-done", "-silent"},
			Timeout:        25 * time.Second,
			SettleDelay:    6 * time.Second,
			Verified:       true,
			TargetsDefault: true,
		},
		{
			Name:        "SumatraPDF Simple Print",
			Args:        []string{PlaceholderFile, "-print"},
			Timeout:     20 * time.Second,
			SettleDelay: 5 * time.Second,
			Verified:    true,
		},
		{
			Name:     "SumatraPDF Print Dialog",
			Args:     []string{PlaceholderFile, "-print-dialog"},
			Timeout:  15 * time.Second,
			Verified: false,
		},
	}
}

// DeliveryResult is the outcome of a successful print request
type DeliveryResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Method   string `json:"method"`
	Printer  string `json:"printer"`
	JobID    JobID  `json:"job_id"`
	Verified bool   `json:"verified"`
}

// JobID identifies one print or render request. It is the creation time of
// the rendered document in unix milliseconds.
type JobID string

// NewJobID derives a job id from a timestamp
func NewJobID(t time.Time) JobID {
	return JobID(strconv.FormatInt(t.UnixMilli(), 10))
}

// String returns the string representation of JobID
func (id JobID) String() string {
	return string(id)
}

// FileName returns the scratch file name for the job's rendered document.
// token tells apart jobs created in the same millisecond.
func (id JobID) FileName(token string) string {
	if token == "" {
		return "print_job_" + string(id) + ".pdf"
	}
	return "print_job_" + string(id) + "_" + token + ".pdf"
}
