// Package printing provides the infrastructure side of receipt delivery:
// HTML to PDF rendering with headless Chrome, discovery of installed
// printers, the helper-driven delivery chain and scratch file management.
//
// Example usage:
//
//	renderer := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:       "<html>...</html>",
//	    Layout:     printing.ReceiptLayout(),
//	    OutputPath: scratch.NewPath(jobID),
//	})
//	if err != nil {
//	    return err
//	}
//
//	dispatcher := NewHelperDispatcher(&DispatcherConfig{Logger: logger})
//	delivery, err := dispatcher.Dispatch(ctx, result.Path, "EPSON TM-T20")
package printing
