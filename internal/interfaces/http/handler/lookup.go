package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/shared"
)

// LookupScope returns a document resolver limited to the invoices held under mobile
type LookupScope func(mobile string) printingapp.DocumentResolver

// LookupHandler serves customers who look up their records by mobile number.
// Its routes carry no JWT; every call runs with an anonymous session.
type LookupHandler struct {
	BaseHandler
	desk    ServiceDesk
	exports Exporter
	scope   LookupScope
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(desk ServiceDesk, exports Exporter, scope LookupScope) *LookupHandler {
	return &LookupHandler{desk: desk, exports: exports, scope: scope}
}

// mobileRequest is the path of a lookup
type mobileRequest struct {
	Mobile string `uri:"mobile" binding:"required,max=20"`
}

// lookupInvoiceRequest is the path of an invoice reached through a lookup
type lookupInvoiceRequest struct {
	Mobile string `uri:"mobile" binding:"required,max=20"`
	ID     string `uri:"id" binding:"required,max=64"`
}

// Lookup godoc
// @ID           lookupCustomer
// @Summary      Look up a customer by mobile number
// @Description  Returns the customer, complaints, and invoices held for a mobile number. No sign in is needed.
// @Tags         lookup
// @Produce      json
// @Param        mobile path string true "10 digit mobile number"
// @Success      200 {object} dto.Response{data=invoicingapp.LookupResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /customers/lookup/{mobile} [get]
func (h *LookupHandler) Lookup(c *gin.Context) {
	var uri mobileRequest
	if !h.BindURI(c, &uri) {
		return
	}

	result, err := h.desk.Lookup(c.Request.Context(), shared.Session{}, uri.Mobile)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Export godoc
// @ID           exportLookupInvoice
// @Summary      Export an invoice found by a lookup
// @Description  Produces the PDF of an invoice the lookup of mobile returned. Any other invoice is not found.
// @Tags         lookup
// @Produce      application/pdf
// @Param        mobile path string true "10 digit mobile number"
// @Param        id path string true "Invoice ID"
// @Param        layout query string false "STATUTORY or CARD"
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /customers/lookup/{mobile}/invoices/{id}/export [get]
func (h *LookupHandler) Export(c *gin.Context) {
	var uri lookupInvoiceRequest
	if !h.BindURI(c, &uri) {
		return
	}
	layout, ok := h.Layout(c)
	if !ok {
		return
	}

	result, err := h.exports.ExportFor(c.Request.Context(), shared.Session{}, h.scope(uri.Mobile), printingapp.ExportRequest{
		InvoiceID: uri.ID,
		Layout:    layout,
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
	sendPDF(c, result.FileName, result.Data)
}
