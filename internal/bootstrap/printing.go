// Package bootstrap assembles the print pipeline from configuration. It is
// shared by the HTTP server and the printctl command.
package bootstrap

import (
	"context"

	printapp "github.com/benossaliha2/cloud-printer/internal/application/printing"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/config"
	infra "github.com/benossaliha2/cloud-printer/internal/infrastructure/printing"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Pipeline is a fully wired print pipeline
type Pipeline struct {
	Service *printapp.PrintService
	Scratch *infra.ScratchStorage
	Metrics *infra.Metrics
}

// NewPipeline wires the renderer, device directory, dispatcher and scratch
// storage into a PrintService. Metrics are registered on reg when it is
// non-nil. Stale job files left by earlier runs are removed.
func NewPipeline(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var metrics *infra.Metrics
	if reg != nil {
		metrics = infra.NewMetrics(reg)
	}

	renderer := infra.NewChromedpRenderer(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Renderer.Timeout,
		RemoteURL:      cfg.Renderer.RemoteURL,
		ExecPath:       cfg.Renderer.ExecPath,
		NoSandbox:      cfg.Renderer.NoSandbox,
		Logger:         log.Named("renderer"),
		Metrics:        metrics,
	})
	devices := infra.NewCommandDeviceDirectory(&infra.DeviceDirectoryConfig{
		Query:   infra.PowerShellQuery(cfg.Printing.DeviceQuery),
		Timeout: cfg.Printing.DeviceTimeout,
		Logger:  log.Named("devices"),
	})
	locator := infra.NewHelperLocator(helperPaths(cfg.Printing.HelperPaths))
	dispatcher := infra.NewHelperDispatcher(&infra.DispatcherConfig{
		Locator: locator,
		Logger:  log.Named("dispatcher"),
		Metrics: metrics,
	})

	scratch, err := infra.NewScratchStorage(&infra.ScratchStorageConfig{
		Dir:     cfg.Printing.ScratchDir,
		Logger:  log.Named("scratch"),
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}
	if removed, err := scratch.CleanupOlderThan(ctx, cfg.Printing.StaleFileAge); err != nil {
		log.Warn("Failed to remove stale job files", zap.Error(err))
	} else if removed > 0 {
		log.Info("Removed stale job files", zap.Int("count", removed))
	}

	service := printapp.NewPrintService(renderer, devices, dispatcher, locator, scratch,
		printapp.ServiceConfig{
			PrintingEnabled: cfg.Printing.Enabled,
			Keywords:        cfg.Printing.Keywords,
			CleanupDelay:    cfg.Printing.CleanupDelay,
			Metrics:         metrics,
		}, log.Named("print"))

	return &Pipeline{
		Service: service,
		Scratch: scratch,
		Metrics: metrics,
	}, nil
}

// helperPaths maps an empty configured list to nil so the locator falls
// back to its built-in install locations.
func helperPaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	return paths
}
