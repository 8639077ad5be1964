// Package cli implements the printctl command-line interface. Commands run
// the print pipeline in-process, without the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	printapp "github.com/benossaliha2/cloud-printer/internal/application/printing"
	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Service is the part of the print service the commands use
type Service interface {
	PrintReceipt(ctx context.Context) (*printing.DeliveryResult, error)
	GenerateReceipt(ctx context.Context) (*printapp.Document, error)
	GenerateDocument(ctx context.Context, html string, opts *printapp.DocumentOptions) (*printapp.Document, error)
	ListPrinters(ctx context.Context) *printapp.PrinterList
	Status(ctx context.Context) *printapp.Status
}

var _ Service = (*printapp.PrintService)(nil)

// ServiceFactory builds the service once flags have been parsed. configDirs
// is empty unless --config was given.
type ServiceFactory func(ctx context.Context, configDirs []string, log *zap.Logger) (Service, error)

// ErrNotReady is returned by "status --check" when printing is not possible
var ErrNotReady = errors.New("printer host is not ready")

// CLI holds shared state for all commands
type CLI struct {
	factory ServiceFactory
	service Service
	logger  *zap.Logger

	configDir string
	verbose   bool
	jsonOut   bool
}

// New creates a CLI that builds its service with factory
func New(factory ServiceFactory) *CLI {
	return &CLI{
		factory: factory,
		logger:  zap.NewNop(),
	}
}

// RootCommand builds the printctl command tree
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "printctl",
		Short:         "Render and print receipts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.configDir, "config", "c", "", "directory containing config.toml and .env")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(c.printersCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.printCommand())
	root.AddCommand(c.renderCommand())

	return root
}

// Execute runs the command tree and reports a failure on stderr
func (c *CLI) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(stderr, "%s", describeError(err))
	}
	_ = logger.Sync(c.logger)
	return err
}

func (c *CLI) setup(cmd *cobra.Command) error {
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{
		Level:  level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return err
	}
	c.logger = log

	var dirs []string
	if c.configDir != "" {
		dirs = []string{c.configDir}
	}
	service, err := c.factory(cmd.Context(), dirs, log)
	if err != nil {
		return fmt.Errorf("initialize print pipeline: %w", err)
	}
	c.service = service
	return nil
}

// writeJSON prints v when --json is set and reports whether it did
func (c *CLI) writeJSON(w io.Writer, v any) (bool, error) {
	if !c.jsonOut {
		return false, nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

// describeError adds the root cause of pipeline errors
func describeError(err error) string {
	var pe *printing.Error
	if errors.As(err, &pe) {
		msg := fmt.Sprintf("%s (%s)", pe.Message, pe.Code)
		if cause := printing.RootCause(pe.Cause); cause != "" {
			msg += ": " + cause
		}
		return msg
	}
	return err.Error()
}
