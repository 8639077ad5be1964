package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benossaliha2/cloud-printer/internal/bootstrap"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/config"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/cli"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var pipeline *bootstrap.Pipeline
	newService := func(ctx context.Context, configDirs []string, log *zap.Logger) (cli.Service, error) {
		p, err := newPipeline(ctx, configDirs, log)
		if err != nil {
			return nil, err
		}
		pipeline = p
		return p.Service, nil
	}

	err := cli.New(newService).Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)

	// Job files handed to the print helper are removed after their cleanup
	// delay; an interrupt removes them at once.
	if pipeline != nil && pipeline.Scratch.Pending() > 0 {
		fmt.Fprintln(os.Stderr, "Waiting for the print helper to release the job file...")
		pipeline.Scratch.Flush(ctx)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(1)
	}
}

func newPipeline(ctx context.Context, configDirs []string, log *zap.Logger) (*bootstrap.Pipeline, error) {
	if len(configDirs) == 0 {
		configDirs = config.DefaultSearchPaths
	}
	cfg, err := config.LoadFrom(configDirs...)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewPipeline(ctx, cfg, nil, log)
}
