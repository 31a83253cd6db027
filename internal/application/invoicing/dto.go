package invoicing

import (
	"time"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
)

// =============================================================================
// Requests
// =============================================================================

// CalculateRequest carries the live item list of a draft
type CalculateRequest struct {
	Items []invoicing.LineItem `json:"items" binding:"required,dive"`
}

// SubmitInvoiceRequest is a filled-in draft ready to be sent to the record store
type SubmitInvoiceRequest struct {
	CustomerID    string                     `json:"customerId" binding:"required"`
	InvoiceNumber string                     `json:"invoiceNumber" binding:"max=50"`
	InvoiceDate   *time.Time                 `json:"invoiceDate"`
	PaymentStatus string                     `json:"paymentStatus" binding:"omitempty,oneof=Unpaid Paid Partial"`
	Details       invoicing.StatutoryDetails `json:"details"`
	Items         []invoicing.LineItem       `json:"items" binding:"required"`
}

// Draft converts the request into an invoice draft
func (r *SubmitInvoiceRequest) Draft() *invoicing.Draft {
	d := &invoicing.Draft{
		CustomerID:    r.CustomerID,
		InvoiceNumber: r.InvoiceNumber,
		PaymentStatus: invoicing.PaymentStatus(r.PaymentStatus),
		Details:       r.Details,
		Items:         r.Items,
	}
	if r.InvoiceDate != nil {
		d.InvoiceDate = *r.InvoiceDate
	}
	return d
}

// CreateCustomerRequest registers a new customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=3,max=100"`
	Mobile  string `json:"mobile" binding:"required,mobile"`
	Address string `json:"address" binding:"required,min=5,max=500"`
}

// UpdateCustomerRequest replaces a customer's details
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=3,max=100"`
	Mobile  string `json:"mobile" binding:"required,mobile"`
	Address string `json:"address" binding:"required,min=5,max=500"`
}

// RaiseComplaintRequest opens a service complaint for a customer
type RaiseComplaintRequest struct {
	CustomerID  string   `json:"customerId" binding:"max=64"`
	Mobile      string   `json:"mobile" binding:"omitempty,mobile"`
	Services    []string `json:"services" binding:"max=10,dive,max=50"`
	Description string   `json:"description" binding:"max=1000"`
}

// UpdateComplaintStatusRequest moves a complaint along its workflow
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Working Completed"`
}

// ListInvoicesRequest filters the invoice list
type ListInvoicesRequest struct {
	Search string `form:"search" binding:"max=100"`
}

// =============================================================================
// Responses
// =============================================================================

// InvoiceResponse is an invoice with its buyer and recomputed totals
type InvoiceResponse struct {
	ID            string                     `json:"id"`
	InvoiceNumber string                     `json:"invoiceNumber"`
	InvoiceDate   time.Time                  `json:"invoiceDate"`
	CustomerID    string                     `json:"customerId"`
	Customer      *servicedesk.Customer      `json:"customer,omitempty"`
	Items         []invoicing.LineItem       `json:"items"`
	PaymentStatus string                     `json:"paymentStatus"`
	Details       invoicing.StatutoryDetails `json:"details"`
	Totals        invoicing.Totals           `json:"totals"`
	CreatedAt     time.Time                  `json:"createdAt,omitzero"`
}

// ToInvoiceResponse converts an invoice and its buyer into a response
func ToInvoiceResponse(inv *invoicing.Invoice, customer *servicedesk.Customer) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		CustomerID:    inv.CustomerID,
		Customer:      customer,
		Items:         inv.Items,
		PaymentStatus: inv.PaymentStatus.String(),
		Details:       inv.Details,
		Totals:        inv.Totals(),
		CreatedAt:     inv.CreatedAt,
	}
}

// DraftResponse is a draft with its live totals
type DraftResponse struct {
	Draft  *invoicing.Draft `json:"draft"`
	Totals invoicing.Totals `json:"totals"`
}

// LookupResponse is everything held for one mobile number
type LookupResponse struct {
	Customer   *servicedesk.Customer   `json:"customer"`
	Complaints []servicedesk.Complaint `json:"complaints"`
	Invoices   []InvoiceResponse       `json:"invoices"`
}

// ToLookupResponse converts a lookup result, attaching the customer to each invoice
func ToLookupResponse(r *servicedesk.LookupResult) LookupResponse {
	resp := LookupResponse{
		Customer:   r.Customer,
		Complaints: r.Complaints,
		Invoices:   make([]InvoiceResponse, len(r.Invoices)),
	}
	if resp.Complaints == nil {
		resp.Complaints = []servicedesk.Complaint{}
	}
	for i := range r.Invoices {
		resp.Invoices[i] = ToInvoiceResponse(&r.Invoices[i], r.Customer)
	}
	return resp
}
