package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Dispatcher hands a document file to a device by trying each delivery
// method in order until one succeeds
type Dispatcher interface {
	Dispatch(ctx context.Context, filePath, deviceName string) (*printing.DeliveryResult, error)
}

// DispatcherConfig contains configuration for the helper dispatcher
type DispatcherConfig struct {
	Locator HelperResolver
	Runner  CommandRunner
	// Methods is the delivery chain in priority order. Nil selects the SumatraPDF chain.
	Methods []printing.DeliveryMethod
	Logger  *zap.Logger
	Metrics *Metrics
	// Sleep waits out settle delays. It returns early with ctx's error.
	Sleep func(ctx context.Context, d time.Duration) error
}

// HelperDispatcher delivers documents through an external print helper
type HelperDispatcher struct {
	locator HelperResolver
	runner  CommandRunner
	methods []printing.DeliveryMethod
	logger  *zap.Logger
	metrics *Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewHelperDispatcher creates a dispatcher
func NewHelperDispatcher(config *DispatcherConfig) *HelperDispatcher {
	if config == nil {
		config = &DispatcherConfig{}
	}

	d := &HelperDispatcher{
		locator: config.Locator,
		runner:  config.Runner,
		methods: config.Methods,
		logger:  config.Logger,
		metrics: config.Metrics,
		sleep:   config.Sleep,
	}
	if d.locator == nil {
		d.locator = NewHelperLocator(nil)
	}
	if d.runner == nil {
		d.runner = ExecRunner{}
	}
	if d.methods == nil {
		d.methods = printing.DefaultDeliveryMethods()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.sleep == nil {
		d.sleep = sleepContext
	}
	return d
}

// Methods returns the delivery chain in priority order
func (d *HelperDispatcher) Methods() []printing.DeliveryMethod {
	return d.methods
}

// Dispatch runs the delivery chain against filePath. The first method that
// exits cleanly wins and Dispatch returns once its settle delay has elapsed.
// When every method fails the returned DISPATCH_FAILED error wraps all
// attempt errors.
func (d *HelperDispatcher) Dispatch(ctx context.Context, filePath, deviceName string) (*printing.DeliveryResult, error) {
	helper, err := d.locator.Locate()
	if err != nil {
		d.logger.Error("print helper not found", zap.Error(err))
		return nil, err
	}

	span := trace.SpanFromContext(ctx)
	var attemptErrs []error

	for i, method := range d.methods {
		log := d.logger.With(
			zap.String("method", method.Name),
			zap.Int("attempt", i+1),
			zap.String("printer", method.PrinterLabel(deviceName)))

		args := method.ExpandArgs(filePath, deviceName)
		log.Info("trying delivery method", zap.String("helper", helper), zap.Strings("args", args))

		res, err := d.runAttempt(ctx, method, helper, args)
		if err != nil {
			fields := []zap.Field{zap.Error(err)}
			if res != nil {
				fields = append(fields,
					zap.ByteString("stdout", res.Stdout),
					zap.ByteString("stderr", res.Stderr))
			}
			log.Warn("delivery method failed", fields...)
			telemetry.AddEvent(span, "delivery_attempt_failed",
				telemetry.SpanAttrMethod, method.Name,
				telemetry.SpanAttrAttempt, i+1)
			d.metrics.IncAttempt(method.Name, "failed")
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", method.Name, err))

			if ctx.Err() != nil {
				attemptErrs = append(attemptErrs, ctx.Err())
				break
			}
			continue
		}

		d.metrics.IncAttempt(method.Name, "success")
		if len(res.Stdout) > 0 || len(res.Stderr) > 0 {
			log.Debug("helper output",
				zap.ByteString("stdout", res.Stdout),
				zap.ByteString("stderr", res.Stderr))
		}

		if method.SettleDelay > 0 {
			log.Debug("waiting for device to take the job", zap.Duration("settle_delay", method.SettleDelay))
			if err := d.sleep(ctx, method.SettleDelay); err != nil {
				log.Warn("settle delay interrupted", zap.Error(err))
			}
		}

		log.Info("delivery method succeeded", zap.Bool("verified", method.Verified))
		telemetry.AddEvent(span, "delivery_attempt_succeeded",
			telemetry.SpanAttrMethod, method.Name,
			telemetry.SpanAttrAttempt, i+1)
		return &printing.DeliveryResult{
			Success:  true,
			Message:  deliveryMessage(method),
			Method:   method.Name,
			Printer:  method.PrinterLabel(deviceName),
			Verified: method.Verified,
		}, nil
	}

	return nil, printing.NewError(printing.ErrCodeDispatchFailed,
		"all delivery methods failed", errors.Join(attemptErrs...))
}

// runAttempt runs one method under its own timeout
func (d *HelperDispatcher) runAttempt(ctx context.Context, method printing.DeliveryMethod, helper string, args []string) (*CommandResult, error) {
	attemptCtx := ctx
	if method.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, method.Timeout)
		defer cancel()
	}

	res, err := d.runner.Run(attemptCtx, helper, args...)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("timed out after %v: %w", method.Timeout, err)
	}
	return res, err
}

func deliveryMessage(m printing.DeliveryMethod) string {
	if !m.Verified {
		return fmt.Sprintf("print dialog opened with %s, delivery not confirmed", m.Name)
	}
	return fmt.Sprintf("document sent to printer with %s", m.Name)
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ Dispatcher = (*HelperDispatcher)(nil)
