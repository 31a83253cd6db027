package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	invoicingapp "github.com/vikalp/backend/internal/application/invoicing"
	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

// InvoiceService is the part of the invoice service the handler needs
type InvoiceService interface {
	Calculate(items []invoicing.LineItem) invoicing.Totals
	Submit(ctx context.Context, session shared.Session, draft *invoicing.Draft) (*invoicingapp.InvoiceResponse, error)
	Get(ctx context.Context, session shared.Session, id string) (*invoicingapp.InvoiceResponse, error)
	List(ctx context.Context, session shared.Session, query string) ([]invoicingapp.InvoiceResponse, error)
	Delete(ctx context.Context, session shared.Session, id string) error
}

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Calculate godoc
// @ID           calculateInvoice
// @Summary      Compute live invoice totals
// @Description  Returns the live totals of a draft item list. Nothing is stored.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoicingapp.CalculateRequest true "Line items"
// @Success      200 {object} dto.Response{data=invoicing.Totals}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/calculate [post]
func (h *InvoiceHandler) Calculate(c *gin.Context) {
	var req invoicingapp.CalculateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.Success(c, h.invoices.Calculate(req.Items))
}

// Submit godoc
// @ID           submitInvoice
// @Summary      Submit an invoice
// @Description  Validates a draft and sends it to the record store
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoicingapp.SubmitInvoiceRequest true "Invoice draft"
// @Success      201 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Submit(c *gin.Context) {
	var req invoicingapp.SubmitInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.invoices.Submit(c.Request.Context(), middleware.GetSession(c), req.Draft())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Returns invoices, filtered by number, customer name, or mobile when search is set
// @Tags         invoices
// @Produce      json
// @Param        search query string false "Invoice number, customer name, or mobile"
// @Success      200 {object} dto.Response{data=[]invoicingapp.InvoiceResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var req invoicingapp.ListInvoicesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.invoices.List(c.Request.Context(), middleware.GetSession(c), req.Search)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Description  Returns one invoice with recomputed totals
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	result, err := h.invoices.Get(c.Request.Context(), middleware.GetSession(c), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Description  Removes an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), middleware.GetSession(c), uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
