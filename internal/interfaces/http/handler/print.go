package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	printapp "github.com/benossaliha2/cloud-printer/internal/application/printing"
	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/dto"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PrintAPI is the print service as seen by the HTTP layer
type PrintAPI interface {
	PrintingEnabled() bool
	PrintReceipt(ctx context.Context) (*printing.DeliveryResult, error)
	GenerateReceipt(ctx context.Context) (*printapp.Document, error)
	GenerateDocument(ctx context.Context, html string, opts *printapp.DocumentOptions) (*printapp.Document, error)
	ListPrinters(ctx context.Context) *printapp.PrinterList
	Status(ctx context.Context) *printapp.Status
}

var _ PrintAPI = (*printapp.PrintService)(nil)

// PageCountHeader reports the page count of a rendered download
const PageCountHeader = "X-Page-Count"

// PrintHandler handles print-related API endpoints
type PrintHandler struct {
	BaseHandler
	service PrintAPI
	now     func() time.Time
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(service PrintAPI) *PrintHandler {
	return &PrintHandler{
		service: service,
		now:     time.Now,
	}
}

// PrintResponse is returned by a successful print request
// @name HandlerPrintResponse
type PrintResponse struct {
	Message   string `json:"message" example:"Receipt printed"`
	JobID     string `json:"job_id" example:"1700000000123"`
	Printer   string `json:"printer,omitempty" example:"EPSON TM-T20III"`
	Method    string `json:"method" example:"SumatraPDF Standard"`
	Verified  bool   `json:"verified" example:"true"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// GeneratePDFRequest is the body of POST /generate-pdf
// @name HandlerGeneratePDFRequest
type GeneratePDFRequest struct {
	HTML    string         `json:"html" binding:"required" example:"<h1>Invoice</h1>"`
	Options map[string]any `json:"options" swaggertype:"object"`
}

// PrintReceipt godoc
//
//	@ID				printReceipt
//	@Summary		Print the sample receipt
//	@Description	Renders the sample receipt and delivers it to the selected printer. In cloud mode the receipt is only rendered.
//	@Tags			print
//	@Produce		json
//	@Param			Idempotency-Key	header		string	false	"Rejects a repeat of the same print within the TTL"	maxlength(128)
//	@Success		200				{object}	APIResponse[PrintResponse]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		500				{object}	ErrorResponse
//	@Failure		503				{object}	ErrorResponse
//	@Router			/print [post]
func (h *PrintHandler) PrintReceipt(c *gin.Context) {
	result, err := h.service.PrintReceipt(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PrintResponse{
		Message:   result.Message,
		JobID:     result.JobID.String(),
		Printer:   result.Printer,
		Method:    result.Method,
		Verified:  result.Verified,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// ListPrinters godoc
//
//	@ID				listPrinters
//	@Summary		List printers
//	@Description	Returns the installed printers and the printer a print request would use
//	@Tags			print
//	@Produce		json
//	@Success		200	{object}	APIResponse[printapp.PrinterList]
//	@Router			/printers [get]
func (h *PrintHandler) ListPrinters(c *gin.Context) {
	h.Success(c, h.service.ListPrinters(c.Request.Context()))
}

// GetStatus godoc
//
//	@ID				getPrintStatus
//	@Summary		Get print readiness
//	@Description	Reports the print helper location, printer count, target printer and whether a print could succeed
//	@Tags			print
//	@Produce		json
//	@Success		200	{object}	APIResponse[printapp.Status]
//	@Router			/status [get]
func (h *PrintHandler) GetStatus(c *gin.Context) {
	h.Success(c, h.service.Status(c.Request.Context()))
}

// DownloadReceipt godoc
//
//	@ID				downloadReceipt
//	@Summary		Download the sample receipt
//	@Description	Renders the sample receipt and returns it as a PDF attachment
//	@Tags			print
//	@Produce		application/pdf
//	@Success		200	{file}		binary
//	@Header			200	{string}	X-Job-ID		"Job ID"
//	@Header			200	{integer}	X-Page-Count	"Number of pages"
//	@Failure		500	{object}	ErrorResponse
//	@Router			/download [post]
func (h *PrintHandler) DownloadReceipt(c *gin.Context) {
	doc, err := h.service.GenerateReceipt(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendPDF(c, "receipt", doc)
}

// GeneratePDF godoc
//
//	@ID				generatePDF
//	@Summary		Generate a PDF
//	@Description	Renders caller supplied HTML with optional page options merged over the A4 defaults
//	@Tags			print
//	@Accept			json
//	@Produce		application/pdf
//	@Param			request	body		GeneratePDFRequest	true	"HTML and page options"
//	@Success		200		{file}		binary
//	@Header			200		{string}	X-Job-ID		"Job ID"
//	@Header			200		{integer}	X-Page-Count	"Number of pages"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/generate-pdf [post]
func (h *PrintHandler) GeneratePDF(c *gin.Context) {
	var req GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	opts, err := printapp.ParseDocumentOptions(req.Options)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.service.GenerateDocument(c.Request.Context(), req.HTML, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendPDF(c, "custom", doc)
}

func (h *PrintHandler) handleBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &validationErrs), errors.Is(err, io.EOF):
		h.BadRequest(c, dto.ErrCodeInvalidInput, "html is required")
	case errors.As(err, &maxBytesErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
			"Request body exceeds maximum allowed size")
	default:
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "request body must be a JSON object")
	}
}

// sendPDF writes doc as a PDF attachment named <prefix>_<job id>.pdf
func sendPDF(c *gin.Context, prefix string, doc *printapp.Document) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.pdf"`, prefix, doc.JobID))
	c.Header(middleware.JobIDHeader, doc.JobID.String())
	c.Header(PageCountHeader, strconv.Itoa(doc.PageCount))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
