package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/secugard/secugard/internal/i18n"
	"go.uber.org/zap"
)

// ErrorHandler provides unified error handling for the HTTP surface.
type ErrorHandler struct {
	logger     *zap.Logger
	translator *i18n.I18n
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, translator *i18n.I18n) *ErrorHandler {
	return &ErrorHandler{
		logger:     logger,
		translator: translator,
	}
}

// HandleError converts any error to APIError and writes the HTTP response.
func (h *ErrorHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := h.ConvertToAPIError(err).Clone()
	apiErr.TraceID = ExtractTraceID(c)
	apiErr.Timestamp = time.Now().UTC().Format(time.RFC3339)
	apiErr.Message = h.translateMessage(c, apiErr)

	h.logError(c, apiErr, err)

	c.JSON(apiErr.HTTPStatus, gin.H{
		"error": apiErr,
	})
}

// ConvertToAPIError converts any error to APIError
func (h *ErrorHandler) ConvertToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return ErrInternalServer.WithDetail("original_error", err.Error())
}

// translateMessage resolves the localized message for an error code, keeping
// the built-in message when no translation exists.
func (h *ErrorHandler) translateMessage(c *gin.Context, apiErr *APIError) string {
	if h.translator == nil {
		return apiErr.Message
	}
	lang := i18n.LangFromContext(c)
	key := fmt.Sprintf("error.%s.message", apiErr.Code)
	if translated := h.translator.Translate(key, lang, nil); translated != key {
		return translated
	}
	return apiErr.Message
}

// logError logs the error with request context.
func (h *ErrorHandler) logError(c *gin.Context, apiErr *APIError, originalErr error) {
	fields := []zap.Field{
		zap.String("trace_id", apiErr.TraceID),
		zap.String("error_code", apiErr.Code),
		zap.String("category", string(apiErr.Category)),
		zap.Int("http_status", apiErr.HTTPStatus),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("client_ip", c.ClientIP()),
	}
	if originalErr != nil && originalErr.Error() != apiErr.Message {
		fields = append(fields, zap.Error(originalErr))
	}

	switch apiErr.Severity {
	case SeverityInfo:
		h.logger.Info(apiErr.Message, fields...)
	case SeverityWarning:
		h.logger.Warn(apiErr.Message, fields...)
	default:
		h.logger.Error(apiErr.Message, fields...)
	}
}

// RecoveryMiddleware returns a gin middleware for panic recovery
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		panicErr := &APIError{
			Code:       "E5000",
			Message:    "Server panic occurred",
			Category:   CategoryInternal,
			Severity:   SeverityCritical,
			HTTPStatus: http.StatusInternalServerError,
			Details: map[string]any{
				"panic": fmt.Sprintf("%v", err),
			},
		}
		h.HandleError(c, panicErr)
	})
}

// NotFoundError creates a not found error for a specific resource
func NotFoundError(resourceType string, identifier string) *APIError {
	return ErrResourceNotFound.
		WithDetail("resource_type", resourceType).
		WithDetail("identifier", identifier)
}

// ValidationError creates a validation error with field details
func ValidationError(field string, reason string) *APIError {
	return ErrInvalidInput.
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// ExtractTraceID extracts the trace ID from the context or request, creating
// one when absent.
func ExtractTraceID(c *gin.Context) string {
	if traceID := c.GetString("trace_id"); traceID != "" {
		return traceID
	}
	if traceID := c.GetHeader("X-Trace-Id"); traceID != "" {
		return traceID
	}
	traceID := uuid.New().String()
	c.Set("trace_id", traceID)
	return traceID
}
