package printing

import (
	"bytes"
	"context"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CurrencySuffix is appended to formatted money amounts
const CurrencySuffix = " TL"

// TemplateEngine renders HTML documents from html/template sources with
// receipt formatting helpers. Formatting follows Turkish conventions.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatMoneyRaw": formatMoneyRaw,
		"formatDate":     formatDate,
		"formatTime":     formatTime,
		"formatPercent":  formatPercent,
		"padLeft":        padLeft,
		"padRight":       padRight,
		"upper":          upperTR,
		"add":            add,
		"mul":            mul,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if content == "" {
		return "", printing.NewError(printing.ErrCodeInvalidInput, "template content is empty", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", printing.NewError(printing.ErrCodeRenderFailed, "template rendering cancelled", err)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", printing.NewError(printing.ErrCodeRenderFailed, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", printing.NewError(printing.ErrCodeRenderFailed, "failed to execute template", err)
	}

	return buf.String(), nil
}

// formatMoney formats a decimal value with the currency suffix
// Example: 78.5 -> "78.50 TL"
func formatMoney(v decimal.Decimal) string {
	return formatMoneyRaw(v) + CurrencySuffix
}

// formatMoneyRaw formats a decimal value with two fraction digits
func formatMoneyRaw(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// formatDate formats a time value as a tr-TR date
// Example: 2024-01-15 -> "15.01.2024"
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

// formatTime formats a time value as a tr-TR time of day
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

// formatPercent formats a rate as a percentage
// Example: 0.18 -> "%18"
func formatPercent(v decimal.Decimal) string {
	return "%" + v.Mul(decimal.NewFromInt(100)).String()
}

// padLeft pads string on the left to reach desired rune length
func padLeft(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return strings.Repeat(" ", length-n) + s
}

// padRight pads string on the right to reach desired rune length
func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

// upperTR upper-cases using Turkish casing rules (i -> İ)
func upperTR(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

func add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

func mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}
