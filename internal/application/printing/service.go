package printing

import (
	"context"
	"errors"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	infra "github.com/benossaliha2/cloud-printer/internal/infrastructure/printing"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultCleanupDelay = 30 * time.Second

	// CloudModeMethod is reported when a receipt was rendered but not printed
	CloudModeMethod = "PDF only"
)

// JobFileStore owns the lifecycle of job files handed to the dispatcher
type JobFileStore interface {
	NewPath(id printing.JobID) string
	DeleteNow(path string)
	ScheduleDelete(path string, delay time.Duration)
}

// ServiceConfig holds the print pipeline settings
type ServiceConfig struct {
	// PrintingEnabled is false in cloud deployments without printers
	PrintingEnabled bool
	// Keywords rank device names for target selection
	Keywords []string
	// CleanupDelay is how long a job file outlives a print request
	CleanupDelay time.Duration
	Metrics      *infra.Metrics
	// Now is the clock used for job ids
	Now func() time.Time
}

// PrintService renders receipts and documents and delivers receipts to printers
type PrintService struct {
	renderer   infra.PDFRenderer
	devices    infra.DeviceDirectory
	dispatcher infra.Dispatcher
	helper     infra.HelperResolver
	files      JobFileStore
	templates  *infra.TemplateEngine
	config     ServiceConfig
	metrics    *infra.Metrics
	logger     *zap.Logger
}

// NewPrintService creates a new PrintService
func NewPrintService(
	renderer infra.PDFRenderer,
	devices infra.DeviceDirectory,
	dispatcher infra.Dispatcher,
	helper infra.HelperResolver,
	files JobFileStore,
	config ServiceConfig,
	logger *zap.Logger,
) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Keywords == nil {
		config.Keywords = printing.DefaultKeywords
	}
	if config.CleanupDelay <= 0 {
		config.CleanupDelay = defaultCleanupDelay
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &PrintService{
		renderer:   renderer,
		devices:    devices,
		dispatcher: dispatcher,
		helper:     helper,
		files:      files,
		templates:  infra.NewTemplateEngine(),
		config:     config,
		metrics:    config.Metrics,
		logger:     logger,
	}
}

// PrintingEnabled reports whether physical printing is configured
func (s *PrintService) PrintingEnabled() bool {
	return s.config.PrintingEnabled
}

// =============================================================================
// Receipt Operations
// =============================================================================

// PrintReceipt renders the receipt to a job file and delivers it to the
// selected printer. Once dispatch has started the job file is removed after
// the cleanup delay whatever the outcome. Earlier failures remove it at once.
// With printing disabled the receipt is rendered in memory only.
func (s *PrintService) PrintReceipt(ctx context.Context) (result *printing.DeliveryResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "print")
	defer span.End()
	defer func() { s.recordJob(span, "print", err) }()

	if !s.config.PrintingEnabled {
		doc, err := s.renderReceipt(ctx, "")
		if err != nil {
			return nil, err
		}
		s.logger.Info("receipt rendered without printing",
			zap.String("jobId", doc.JobID.String()),
			zap.Int("bytes", len(doc.Data)))
		return &printing.DeliveryResult{
			Success: true,
			Message: "receipt rendered, physical printing is not available in this deployment",
			Method:  CloudModeMethod,
			JobID:   doc.JobID,
		}, nil
	}

	now := s.config.Now()
	jobID := printing.NewJobID(now)
	path := s.files.NewPath(jobID)
	telemetry.SetAttribute(span, telemetry.SpanAttrJobID, jobID.String())
	log := s.logger.With(zap.String("jobId", jobID.String()), zap.String("path", path))

	scheduled := false
	defer func() {
		if !scheduled {
			s.files.DeleteNow(path)
		}
	}()

	if _, err := s.renderReceiptTo(ctx, jobID, now, path); err != nil {
		log.Error("receipt rendering failed", zap.Error(err))
		return nil, err
	}

	target, ok := s.selectTarget(ctx)
	if !ok {
		log.Warn("no printer available")
		return nil, printing.NewError(printing.ErrCodeNoPrinterAvailable, "no printer available", nil)
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrPrinter, target)
	log.Info("target printer selected", zap.String("printer", target))

	// a helper process may still hold the file after Dispatch returns,
	// whatever the outcome
	result, err = s.dispatcher.Dispatch(ctx, path, target)
	s.files.ScheduleDelete(path, s.config.CleanupDelay)
	scheduled = true
	if err != nil {
		log.Error("receipt delivery failed", zap.Error(err))
		return nil, err
	}

	result.JobID = jobID
	log.Info("receipt printed",
		zap.String("method", result.Method),
		zap.String("printer", result.Printer),
		zap.Bool("verified", result.Verified))

	return result, nil
}

// GenerateReceipt renders the receipt in memory. No file is created.
func (s *PrintService) GenerateReceipt(ctx context.Context) (doc *Document, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "generate")
	defer span.End()
	defer func() { s.recordJob(span, "render", err) }()

	return s.renderReceipt(ctx, "")
}

// GenerateDocument renders caller markup with caller layout options merged
// over the default document layout. No file is created.
func (s *PrintService) GenerateDocument(ctx context.Context, html string, opts *DocumentOptions) (doc *Document, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "generate")
	defer span.End()
	defer func() { s.recordJob(span, "render", err) }()

	layout, err := opts.Layout()
	if err != nil {
		return nil, err
	}

	jobID := printing.NewJobID(s.config.Now())
	res, err := s.renderer.Render(ctx, &infra.RenderRequest{HTML: html, Layout: layout})
	if err != nil {
		s.logger.Error("document rendering failed", zap.String("jobId", jobID.String()), zap.Error(err))
		return nil, err
	}

	return &Document{JobID: jobID, Data: res.Data, PageCount: res.PageCount}, nil
}

// =============================================================================
// Device Operations
// =============================================================================

// ListPrinters returns the installed printers and the current target
func (s *PrintService) ListPrinters(ctx context.Context) *PrinterList {
	ctx, span := telemetry.StartServiceSpan(ctx, "printers", "list")
	defer span.End()

	devices := s.devices.ListDevices(ctx)
	target, _ := printing.SelectTarget(devices, s.config.Keywords)
	telemetry.SetAttribute(span, telemetry.SpanAttrPrinterCount, len(devices))

	return &PrinterList{
		Printers: devices,
		Count:    len(devices),
		Target:   target,
	}
}

// Status reports whether a print request could currently succeed
func (s *PrintService) Status(ctx context.Context) *Status {
	ctx, span := telemetry.StartServiceSpan(ctx, "printers", "status")
	defer span.End()

	status := &Status{PrintingEnabled: s.config.PrintingEnabled}
	if !s.config.PrintingEnabled {
		return status
	}

	if path, err := s.helper.Locate(); err == nil {
		status.Helper = HelperStatus{Available: true, Path: path}
	}

	devices := s.devices.ListDevices(ctx)
	status.Printers = PrinterStatus{Count: len(devices), Available: len(devices) > 0}
	status.TargetPrinter, _ = printing.SelectTarget(devices, s.config.Keywords)
	status.Ready = status.Helper.Available && status.Printers.Available

	return status
}

// LogReadiness logs the startup readiness report
func (s *PrintService) LogReadiness(ctx context.Context) {
	if !s.config.PrintingEnabled {
		s.logger.Info("printing disabled, serving PDF generation only")
		return
	}

	status := s.Status(ctx)
	if !status.Helper.Available {
		s.logger.Warn("print helper not found, install SumatraPDF")
	}
	if !status.Printers.Available {
		s.logger.Warn("no printers installed")
	} else {
		s.logger.Info("target printer selected", zap.String("printer", status.TargetPrinter))
	}

	if status.Ready {
		s.logger.Info("print service ready",
			zap.String("helper", status.Helper.Path),
			zap.Int("printers", status.Printers.Count))
	} else {
		s.logger.Warn("print service not ready, requirements missing")
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (s *PrintService) selectTarget(ctx context.Context) (string, bool) {
	return printing.SelectTarget(s.devices.ListDevices(ctx), s.config.Keywords)
}

// renderReceipt renders the receipt with a fresh job id. An empty path
// keeps the PDF in memory.
func (s *PrintService) renderReceipt(ctx context.Context, path string) (*Document, error) {
	now := s.config.Now()
	jobID := printing.NewJobID(now)
	res, err := s.renderReceiptTo(ctx, jobID, now, path)
	if err != nil {
		return nil, err
	}
	return &Document{JobID: jobID, Data: res.Data, PageCount: res.PageCount}, nil
}

func (s *PrintService) renderReceiptTo(ctx context.Context, jobID printing.JobID, issuedAt time.Time, path string) (*infra.RenderResult, error) {
	html, err := RenderReceiptHTML(ctx, s.templates, SampleReceipt(jobID, issuedAt))
	if err != nil {
		return nil, err
	}

	return s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:       html,
		Layout:     printing.ReceiptLayout(),
		OutputPath: path,
	})
}

// recordJob records the job outcome on the span and in metrics
func (s *PrintService) recordJob(span trace.Span, kind string, err error) {
	if err == nil {
		s.metrics.IncJob(kind, "success")
		telemetry.SetOK(span)
		return
	}

	outcome := string(printing.ErrCodeRenderFailed)
	var perr *printing.Error
	if errors.As(err, &perr) {
		outcome = string(perr.Code)
	}
	s.metrics.IncJob(kind, outcome)
	telemetry.RecordError(span, err)
}
