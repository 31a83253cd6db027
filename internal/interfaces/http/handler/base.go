package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/infrastructure/collaborator"
	"github.com/vikalp/backend/internal/infrastructure/logger"
	infra "github.com/vikalp/backend/internal/infrastructure/printing"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

// exportFailedMessage is shown to the user when no strategy produced a PDF
const exportFailedMessage = "Failed to generate PDF. Please try again."

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the ID set by the request ID middleware
func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, errs shared.ValidationErrors) {
	details := make([]dto.ValidationDetail, len(errs))
	for i, fe := range errs {
		details[i] = dto.ValidationDetail{Field: fe.Field, Message: fe.Message}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// BindJSON binds the request body, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds the query string, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindURI binds path parameters, answering 400 on failure
func (h *BaseHandler) BindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// Layout reads the layout query parameter. An empty value means statutory.
func (h *BaseHandler) Layout(c *gin.Context) (printing.Layout, bool) {
	var q dto.LayoutQuery
	if !h.BindQuery(c, &q) {
		return "", false
	}
	layout, ok := printing.ParseLayout(q.Layout)
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput,
			"Unknown layout: "+q.Layout+" (expected STATUTORY or CARD)")
		return "", false
	}
	return layout, true
}

// HandleError maps an application error to an HTTP response:
//
//   - ValidationErrors: 400 with one detail per field
//   - export or render failure: 500 ERR_EXPORT_FAILED
//   - domain error, including one reported by the record store: its mapped status
//   - any other record store failure: 502 ERR_UPSTREAM
//   - anything else: 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	requestID := getRequestID(c)

	var validationErrs shared.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.ValidationError(c, validationErrs)
		return
	}

	var exportErr *printingapp.ExportError
	var renderErr *infra.RenderError
	if errors.As(err, &exportErr) || errors.As(err, &renderErr) {
		logger.L(c.Request.Context()).Error("Document rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeExportFailed, exportFailedMessage, requestID))
		return
	}

	var collabErr *collaborator.CollaboratorError
	isCollab := errors.As(err, &collabErr)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		message := domainErr.Message
		if isCollab && strings.TrimSpace(collabErr.Message) != "" {
			message = collabErr.Message
		}
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, requestID))
		return
	}

	if isCollab {
		logger.L(c.Request.Context()).Error("Record store call failed", zap.Error(err))
		message := "The record service is unavailable. Please try again."
		if collabErr.StatusCode != 0 && strings.TrimSpace(collabErr.Message) != "" {
			message = collabErr.Message
		}
		c.JSON(http.StatusBadGateway,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeUpstream, message, requestID))
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled request error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
