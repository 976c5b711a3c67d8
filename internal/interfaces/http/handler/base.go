package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dropship/backend/internal/domain/dropship"
	"github.com/dropship/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, page, pageSize, count int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, page, pageSize, count))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleProviderError converts a provider failure into an HTTP response.
// Rate-limit responses carry the provider's wait hint in Retry-After.
func (h *BaseHandler) HandleProviderError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	pe, ok := dropship.AsProviderError(err)
	if !ok {
		// Local validation errors surface as 400 with their own message.
		h.BadRequest(c, err.Error())
		return
	}

	code := dto.CodeForKind(pe.Kind)
	status := dto.GetHTTPStatus(code)

	if pe.Kind == dropship.ErrorKindRateLimited && pe.RetryAfter > 0 {
		seconds := int(pe.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	c.JSON(status, dto.NewProviderErrorResponse(code, pe.Message, pe.Provider, getRequestID(c)))
}
