package handler

import (
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// PrintRoutes creates the route group for print endpoints under /api/v1.
// printMiddleware runs in front of POST /print only.
func PrintRoutes(handler *PrintHandler, printMiddleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("print", "")

	printChain := append(append([]gin.HandlerFunc{}, printMiddleware...), handler.PrintReceipt)
	group.POST("/print", printChain...).
		Describe("Render the sample receipt and print it")
	group.POST("/download", handler.DownloadReceipt).
		Describe("Render the sample receipt as a PDF attachment")
	group.POST("/generate-pdf", handler.GeneratePDF).
		Describe("Render custom HTML as a PDF attachment")

	group.GET("/printers", handler.ListPrinters).
		Describe("List installed printers and the current target")
	group.GET("/status", handler.GetStatus).
		Describe("Report print helper and printer readiness")

	return group
}
