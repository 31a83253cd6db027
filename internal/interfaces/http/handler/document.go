package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

// DocumentRenderer renders invoices to HTML and vector PDF
type DocumentRenderer interface {
	RenderHTML(ctx context.Context, session shared.Session, invoiceID string, layout printing.Layout) (*printingapp.RenderedDocument, error)
	RenderServerPDF(ctx context.Context, session shared.Session, invoiceID string, layout printing.Layout) (*printingapp.PDFFile, error)
}

// Exporter runs the export pipeline and reads its job records
type Exporter interface {
	Export(ctx context.Context, session shared.Session, req printingapp.ExportRequest) (*printingapp.ExportResult, error)
	ExportFor(ctx context.Context, session shared.Session, resolver printingapp.DocumentResolver, req printingapp.ExportRequest) (*printingapp.ExportResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (*printingapp.ExportJobResponse, error)
}

// DocumentHandler serves rendered invoice documents and PDF exports
type DocumentHandler struct {
	BaseHandler
	docs    DocumentRenderer
	exports Exporter
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(docs DocumentRenderer, exports Exporter) *DocumentHandler {
	return &DocumentHandler{docs: docs, exports: exports}
}

// Document godoc
// @ID           getInvoiceDocument
// @Summary      Render an invoice as HTML
// @Description  Returns the invoice rendered as a complete HTML page
// @Tags         documents
// @Produce      html
// @Param        id path string true "Invoice ID"
// @Param        layout query string false "STATUTORY or CARD"
// @Success      200 {string} string
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/document [get]
func (h *DocumentHandler) Document(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}
	layout, ok := h.Layout(c)
	if !ok {
		return
	}

	doc, err := h.docs.RenderHTML(c.Request.Context(), middleware.GetSession(c), uri.ID, layout)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}

// DownloadPDF godoc
// @ID           downloadInvoicePDF
// @Summary      Render an invoice to a vector PDF
// @Description  The document service. The export pipeline's server stage calls this endpoint.
// @Tags         documents
// @Produce      application/pdf
// @Param        id path string true "Invoice ID"
// @Param        layout query string false "STATUTORY or CARD"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/download-pdf [get]
func (h *DocumentHandler) DownloadPDF(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}
	layout, ok := h.Layout(c)
	if !ok {
		return
	}

	file, err := h.docs.RenderServerPDF(c.Request.Context(), middleware.GetSession(c), uri.ID, layout)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sendPDF(c, file.FileName, file.Data)
}

// Export godoc
// @ID           exportInvoice
// @Summary      Export an invoice to PDF
// @Description  Produces exactly one PDF file for the invoice, from the document service or, when that fails, from the rendered page. The strategy that produced it is reported in X-Export-Strategy.
// @Tags         documents
// @Produce      application/pdf
// @Param        id path string true "Invoice ID"
// @Param        layout query string false "STATUTORY or CARD"
// @Param        Idempotency-Key header string false "Blocks a repeated trigger"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}
	layout, ok := h.Layout(c)
	if !ok {
		return
	}

	result, err := h.exports.Export(c.Request.Context(), middleware.GetSession(c), printingapp.ExportRequest{
		InvoiceID:      uri.ID,
		Layout:         layout,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	})
	if err != nil {
		var exportErr *printingapp.ExportError
		if errors.As(err, &exportErr) {
			c.Header(HeaderExportJobID, exportErr.JobID.String())
		}
		h.HandleError(c, err)
		return
	}

	c.Header(HeaderExportStrategy, result.Strategy.String())
	c.Header(HeaderExportJobID, result.JobID.String())
	if result.ArchiveURL != "" {
		c.Header(HeaderArchiveURL, result.ArchiveURL)
	}
	sendPDF(c, result.FileName, result.Data)
}

// GetExportJob godoc
// @ID           getExportJob
// @Summary      Get an export job
// @Description  Returns the record of one export
// @Tags         documents
// @Produce      json
// @Param        id path string true "Export job ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.ExportJobResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/{id} [get]
func (h *DocumentHandler) GetExportJob(c *gin.Context) {
	var uri dto.UUIDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	id, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid export job ID format")
		return
	}

	job, err := h.exports.GetJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}
