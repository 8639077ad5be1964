package handler

import (
	"errors"
	"net/http"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/logger"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/dto"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context or the header
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, "", getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts print pipeline errors to HTTP responses. The root
// cause is reported as details so callers see e.g. why every delivery
// method failed.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	requestID := getRequestID(c)

	var printErr *printing.Error
	if errors.As(err, &printErr) {
		code := string(printErr.Code)
		statusCode := dto.GetHTTPStatus(code)
		if statusCode >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("request failed", zap.String("code", code), zap.Error(err))
		}
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(
			code, printErr.Message, printing.RootCause(printErr.Cause), requestID))
		return
	}

	logger.GetGinLogger(c).Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		"",
		requestID,
	))
}
