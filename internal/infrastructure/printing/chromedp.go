package printing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultChromeTimeout = 30 * time.Second

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, a new headless browser is launched for every render
	RemoteURL string
	// ExecPath is the browser binary to launch (optional)
	// If empty, chromedp looks for Chrome or Chromium on the host
	ExecPath string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
	// Metrics records render outcomes (optional)
	Metrics *Metrics
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol.
// Every Render call owns its browser; nothing is shared between calls.
type ChromedpRenderer struct {
	config  *ChromedpConfig
	logger  *zap.Logger
	metrics *Metrics
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ChromedpRenderer{
		config:  config,
		logger:  logger,
		metrics: config.Metrics,
	}
}

// allocatorOptions returns the Chrome launch flags
func (r *ChromedpRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	if r.config.NoSandbox {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}
	return opts
}

// newAllocator starts a browser allocator bound to ctx
func (r *ChromedpRenderer) newAllocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, r.config.RemoteURL)
	}
	return chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, printing.NewError(printing.ErrCodeInvalidInput, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, printing.NewError(printing.ErrCodeInvalidInput, "HTML content is empty", nil)
	}
	if err := req.Layout.Validate(); err != nil {
		return nil, err
	}

	params, err := buildPrintParams(req.Layout)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, allocCancel := r.newAllocator(ctx)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	var pdfData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		r.metrics.ObserveRender("failed", time.Since(startTime))
		if timedOut(ctx) {
			return nil, printing.NewError(printing.ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, printing.NewError(printing.ErrCodeRenderFailed, "PDF rendering was cancelled", err)
		}

		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, printing.NewError(printing.ErrCodeRenderFailed, "PDF rendering failed", err)
	}

	if len(pdfData) == 0 {
		r.metrics.ObserveRender("failed", time.Since(startTime))
		return nil, printing.NewError(printing.ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	if req.OutputPath != "" {
		if err := os.WriteFile(req.OutputPath, pdfData, 0644); err != nil {
			r.metrics.ObserveRender("failed", time.Since(startTime))
			return nil, printing.NewError(printing.ErrCodeRenderFailed, "failed to write PDF file", err)
		}
	}

	pageCount := countPages(pdfData)
	renderDuration := time.Since(startTime)
	r.metrics.ObserveRender("success", renderDuration)

	r.logger.Info("PDF rendered successfully",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.String("path", req.OutputPath),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		Data:           pdfData,
		Path:           req.OutputPath,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// timedOut reports whether ctx reached its deadline. A connection deadline
// derived from ctx can fire before ctx.Err is set.
func timedOut(ctx context.Context) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	deadline, ok := ctx.Deadline()
	return ok && !time.Now().Before(deadline)
}

// buildPrintParams maps a layout onto Page.printToPDF parameters. Layout.Extra
// is decoded over the computed values using the protocol's own field names,
// so any printToPDF option can be set by callers.
func buildPrintParams(l printing.Layout) (*page.PrintToPDFParams, error) {
	width, height := l.PageSize()

	scale := l.Scale
	if scale == 0 {
		scale = 1
	}

	params := page.PrintToPDF().
		WithPrintBackground(l.PrintBackground).
		WithPaperWidth(mmToInches(width)).
		WithPaperHeight(mmToInches(height)).
		WithMarginTop(mmToInches(l.Margins.Top)).
		WithMarginRight(mmToInches(l.Margins.Right)).
		WithMarginBottom(mmToInches(l.Margins.Bottom)).
		WithMarginLeft(mmToInches(l.Margins.Left)).
		WithScale(scale).
		WithLandscape(l.Landscape)

	if len(l.Extra) > 0 {
		raw, err := json.Marshal(l.Extra)
		if err != nil {
			return nil, printing.NewError(printing.ErrCodeInvalidInput, "invalid renderer options", err)
		}
		if err := json.Unmarshal(raw, params); err != nil {
			return nil, printing.NewError(printing.ErrCodeInvalidInput, "invalid renderer options", err)
		}
	}

	return params, nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// Ensure ChromedpRenderer implements PDFRenderer
var _ PDFRenderer = (*ChromedpRenderer)(nil)
