package handler

import (
	"runtime"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// Service modes reported by the info endpoint
const (
	ModePrinter = "printer"
	ModeCloud   = "cloud"
)

// ServiceInfo is static information about the running service
type ServiceInfo struct {
	Name            string
	Version         string
	PrintingEnabled bool
}

// SystemHandler handles service info and liveness endpoints
type SystemHandler struct {
	BaseHandler
	info      ServiceInfo
	endpoints func() []router.Endpoint
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. endpoints is evaluated on
// each request so routes registered after construction are listed too.
func NewSystemHandler(info ServiceInfo, endpoints func() []router.Endpoint) *SystemHandler {
	if endpoints == nil {
		endpoints = func() []router.Endpoint { return nil }
	}
	return &SystemHandler{
		info:      info,
		endpoints: endpoints,
		startTime: time.Now(),
	}
}

// ServiceInfoResponse represents the service information response
// @name HandlerServiceInfoResponse
type ServiceInfoResponse struct {
	Message   string            `json:"message" example:"cloud-printer"`
	Version   string            `json:"version" example:"1.0.0"`
	GoVersion string            `json:"go_version" example:"go1.25.5"`
	Uptime    string            `json:"uptime" example:"1h2m3s"`
	Mode      string            `json:"mode" example:"printer" enums:"printer,cloud"`
	Endpoints map[string]string `json:"endpoints"`
	Note      string            `json:"note,omitempty"`
}

// GetServiceInfo godoc
//
//	@ID				getServiceInfo
//	@Summary		Get service information
//	@Description	Returns the service version, uptime, mode and the list of endpoints. Served outside the API base path.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	APIResponse[ServiceInfoResponse]
//	@Router			/ [get]
func (h *SystemHandler) GetServiceInfo(c *gin.Context) {
	endpoints := make(map[string]string)
	for _, e := range h.endpoints() {
		endpoints[e.Key()] = e.Description
	}

	resp := ServiceInfoResponse{
		Message:   h.info.Name,
		Version:   h.info.Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Mode:      ModePrinter,
		Endpoints: endpoints,
	}
	if !h.info.PrintingEnabled {
		resp.Mode = ModeCloud
		resp.Note = "Physical printing is disabled; print requests only render the PDF"
	}

	h.Success(c, resp)
}

// HealthResponse represents the liveness response
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// Health godoc
//
//	@ID				healthCheck
//	@Summary		Liveness check
//	@Description	Reports that the process is serving requests. Served outside the API base path.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	APIResponse[HealthResponse]
//	@Router			/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SystemRoutes creates the route group for unversioned system endpoints
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "")

	group.GET("/", handler.GetServiceInfo).
		Describe("Service information")
	group.GET("/health", handler.Health).
		Describe("Liveness check")

	return group
}
