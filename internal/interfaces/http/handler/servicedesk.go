package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	invoicingapp "github.com/vikalp/backend/internal/application/invoicing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

// ServiceDesk covers customers, complaints, and the dashboard
type ServiceDesk interface {
	RegisterCustomer(ctx context.Context, session shared.Session, req invoicingapp.CreateCustomerRequest) (*servicedesk.Customer, error)
	UpdateCustomer(ctx context.Context, session shared.Session, id string, req invoicingapp.UpdateCustomerRequest) (*servicedesk.Customer, error)
	DeleteCustomer(ctx context.Context, session shared.Session, id string) error
	Lookup(ctx context.Context, session shared.Session, mobile string) (*invoicingapp.LookupResponse, error)
	RaiseComplaint(ctx context.Context, session shared.Session, req invoicingapp.RaiseComplaintRequest) (*servicedesk.Complaint, error)
	DraftFromComplaint(ctx context.Context, session shared.Session, complaintID string) (*invoicingapp.DraftResponse, error)
	UpdateComplaintStatus(ctx context.Context, session shared.Session, complaintID string, status servicedesk.ComplaintStatus) (*servicedesk.Complaint, error)
	DashboardStats(ctx context.Context, session shared.Session) (*servicedesk.DashboardStats, error)
}

// ServiceDeskHandler handles customer, complaint, and dashboard endpoints
type ServiceDeskHandler struct {
	BaseHandler
	desk ServiceDesk
}

// NewServiceDeskHandler creates a new ServiceDeskHandler
func NewServiceDeskHandler(desk ServiceDesk) *ServiceDeskHandler {
	return &ServiceDeskHandler{desk: desk}
}

// CreateCustomer godoc
// @ID           createCustomer
// @Summary      Register a customer
// @Description  Registers a customer after validating name, mobile, and address
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body invoicingapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} dto.Response{data=servicedesk.Customer}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers [post]
func (h *ServiceDeskHandler) CreateCustomer(c *gin.Context) {
	var req invoicingapp.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.desk.RegisterCustomer(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// UpdateCustomer godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Replaces a customer's name, mobile, and address
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID"
// @Param        request body invoicingapp.UpdateCustomerRequest true "Customer"
// @Success      200 {object} dto.Response{data=servicedesk.Customer}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *ServiceDeskHandler) UpdateCustomer(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}
	var req invoicingapp.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.desk.UpdateCustomer(c.Request.Context(), middleware.GetSession(c), uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// DeleteCustomer godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Removes a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *ServiceDeskHandler) DeleteCustomer(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	if err := h.desk.DeleteCustomer(c.Request.Context(), middleware.GetSession(c), uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RaiseComplaint godoc
// @ID           raiseComplaint
// @Summary      Raise a complaint
// @Description  Records a new complaint in the Pending state
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        request body invoicingapp.RaiseComplaintRequest true "Complaint"
// @Success      201 {object} dto.Response{data=servicedesk.Complaint}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints [post]
func (h *ServiceDeskHandler) RaiseComplaint(c *gin.Context) {
	var req invoicingapp.RaiseComplaintRequest
	if !h.BindJSON(c, &req) {
		return
	}

	complaint, err := h.desk.RaiseComplaint(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, complaint)
}

// InvoiceDraft godoc
// @ID           complaintInvoiceDraft
// @Summary      Prefill an invoice draft from a complaint
// @Description  Prefills an invoice draft from a complaint
// @Tags         complaints
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Success      200 {object} dto.Response{data=invoicingapp.DraftResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id}/invoice-draft [get]
func (h *ServiceDeskHandler) InvoiceDraft(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	result, err := h.desk.DraftFromComplaint(c.Request.Context(), middleware.GetSession(c), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateComplaintStatus godoc
// @ID           updateComplaintStatus
// @Summary      Move a complaint to a new status
// @Description  Moves a complaint along Pending, Working, Completed
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Param        request body invoicingapp.UpdateComplaintStatusRequest true "Status"
// @Success      200 {object} dto.Response{data=servicedesk.Complaint}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id}/status [put]
func (h *ServiceDeskHandler) UpdateComplaintStatus(c *gin.Context) {
	var uri dto.IDRequest
	if !h.BindURI(c, &uri) {
		return
	}
	var req invoicingapp.UpdateComplaintStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	complaint, err := h.desk.UpdateComplaintStatus(c.Request.Context(), middleware.GetSession(c), uri.ID,
		servicedesk.ComplaintStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, complaint)
}

// DashboardStats godoc
// @ID           dashboardStats
// @Summary      Get dashboard figures
// @Description  Returns the dashboard figures
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=servicedesk.DashboardStats}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dashboard/stats [get]
func (h *ServiceDeskHandler) DashboardStats(c *gin.Context) {
	stats, err := h.desk.DashboardStats(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
