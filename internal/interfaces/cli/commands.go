package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	printapp "github.com/benossaliha2/cloud-printer/internal/application/printing"
	"github.com/spf13/cobra"
)

// printersCommand creates the "printers" command
func (c *CLI) printersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List installed printers and the one a print would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := c.service.ListPrinters(cmd.Context())
			out := cmd.OutOrStdout()
			if done, err := c.writeJSON(out, list); done {
				return err
			}

			printTitle(out, fmt.Sprintf("Printers (%d)", list.Count))
			for _, p := range list.Printers {
				line := p.Name
				if p.IsDefault {
					line += styleDim.Render(" (default)")
				}
				if p.Name == list.Target {
					fmt.Fprintln(out, styleTarget.Render(iconArrow+" ")+line)
					continue
				}
				fmt.Fprintln(out, "  "+line)
			}
			if list.Target == "" {
				printWarning(out, "No printer would be selected")
			}
			return nil
		},
	}
}

// statusCommand creates the "status" command
func (c *CLI) statusCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report print helper and printer readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := c.service.Status(cmd.Context())
			out := cmd.OutOrStdout()
			if done, err := c.writeJSON(out, status); !done {
				printTitle(out, "Print status")
				printKeyValue(out, "printing", yesNo(status.PrintingEnabled))
				helper := "not found"
				if status.Helper.Available {
					helper = status.Helper.Path
				}
				printKeyValue(out, "helper", helper)
				printKeyValue(out, "printers", strconv.Itoa(status.Printers.Count))
				if status.TargetPrinter != "" {
					printKeyValue(out, "target", status.TargetPrinter)
				}
				printKeyValue(out, "ready", yesNo(status.Ready))
			} else if err != nil {
				return err
			}

			if check && !status.Ready {
				return ErrNotReady
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero when the host cannot print")
	return cmd
}

// printCommand creates the "print" command
func (c *CLI) printCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Render the sample receipt and send it to the selected printer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.service.PrintReceipt(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if done, err := c.writeJSON(out, result); done {
				return err
			}

			printSuccess(out, "%s", result.Message)
			printDetail(out, "job %s via %s", result.JobID, result.Method)
			if result.Printer != "" {
				printDetail(out, "printer: %s", result.Printer)
			}
			if !result.Verified {
				printWarning(out, "Delivery was not confirmed by the helper")
			}
			return nil
		},
	}
}

// renderOptions are the layout flags of the render command
type renderOptions struct {
	out       string
	htmlFile  string
	format    string
	landscape bool
	scale     float64
}

// renderCommand creates the "render" command
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sample receipt or an HTML file to PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.render(cmd, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.out, doc.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.out, err)
			}

			out := cmd.OutOrStdout()
			summary := map[string]any{
				"job_id":     doc.JobID,
				"path":       opts.out,
				"page_count": doc.PageCount,
				"bytes":      len(doc.Data),
			}
			if done, err := c.writeJSON(out, summary); done {
				return err
			}

			printSuccess(out, "Rendered %d page(s)", doc.PageCount)
			printFile(out, opts.out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output PDF path")
	cmd.Flags().StringVar(&opts.htmlFile, "html", "", "HTML file to render instead of the sample receipt (- for stdin)")
	cmd.Flags().StringVar(&opts.format, "format", "", "paper size for --html, e.g. A4 or RECEIPT_80MM")
	cmd.Flags().BoolVar(&opts.landscape, "landscape", false, "landscape orientation for --html")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "render scale for --html (0.1 to 2)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) render(cmd *cobra.Command, opts renderOptions) (*printapp.Document, error) {
	if opts.htmlFile == "" {
		return c.service.GenerateReceipt(cmd.Context())
	}

	html, err := readHTML(cmd.InOrStdin(), opts.htmlFile)
	if err != nil {
		return nil, err
	}

	raw := map[string]any{}
	if opts.format != "" {
		raw["format"] = opts.format
	}
	if cmd.Flags().Changed("landscape") {
		raw["landscape"] = opts.landscape
	}
	if cmd.Flags().Changed("scale") {
		raw["scale"] = opts.scale
	}
	docOpts, err := printapp.ParseDocumentOptions(raw)
	if err != nil {
		return nil, err
	}
	return c.service.GenerateDocument(cmd.Context(), html, docOpts)
}

func readHTML(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
