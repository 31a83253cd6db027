package collaborator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
	"github.com/vikalp/backend/internal/domain/shared"
)

// listOf decodes either a bare JSON array or an object wrapping it under "data"
type listOf[T any] []T

func (l *listOf[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*l = env.Data
	return nil
}

func idPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

// =============================================================================
// Customers
// =============================================================================

// ListCustomers returns every customer
func (c *Client) ListCustomers(ctx context.Context, session shared.Session) ([]servicedesk.Customer, error) {
	var list listOf[wireCustomer]
	if err := c.do(ctx, session, http.MethodGet, "/customers", nil, &list); err != nil {
		return nil, err
	}
	out := make([]servicedesk.Customer, len(list))
	for i := range list {
		out[i] = list[i].toDomain()
	}
	return out, nil
}

// GetCustomer returns one customer
func (c *Client) GetCustomer(ctx context.Context, session shared.Session, id string) (*servicedesk.Customer, error) {
	var w wireCustomer
	if err := c.do(ctx, session, http.MethodGet, idPath("customers", id), nil, &w); err != nil {
		return nil, err
	}
	customer := w.toDomain()
	return &customer, nil
}

// CreateCustomer registers a customer and returns it with its assigned ID
func (c *Client) CreateCustomer(ctx context.Context, session shared.Session, customer *servicedesk.Customer) (*servicedesk.Customer, error) {
	var w wireCustomer
	req := customerRequest{Name: customer.Name, Mobile: customer.Mobile, Address: customer.Address}
	if err := c.do(ctx, session, http.MethodPost, "/customers", req, &w); err != nil {
		return nil, err
	}
	created := w.toDomain()
	return &created, nil
}

// UpdateCustomer replaces a customer's details
func (c *Client) UpdateCustomer(ctx context.Context, session shared.Session, customer *servicedesk.Customer) (*servicedesk.Customer, error) {
	var w wireCustomer
	req := customerRequest{Name: customer.Name, Mobile: customer.Mobile, Address: customer.Address}
	if err := c.do(ctx, session, http.MethodPut, idPath("customers", customer.ID), req, &w); err != nil {
		return nil, err
	}
	updated := w.toDomain()
	if updated.ID == "" {
		updated = *customer
	}
	return &updated, nil
}

// DeleteCustomer removes a customer
func (c *Client) DeleteCustomer(ctx context.Context, session shared.Session, id string) error {
	return c.do(ctx, session, http.MethodDelete, idPath("customers", id), nil, nil)
}

// LookupCustomer returns everything held for a mobile number. The endpoint is public.
func (c *Client) LookupCustomer(ctx context.Context, session shared.Session, mobile string) (*servicedesk.LookupResult, error) {
	var w wireLookup
	if err := c.do(ctx, session, http.MethodGet, "/customers/lookup/"+url.PathEscape(mobile), nil, &w); err != nil {
		return nil, err
	}

	result := &servicedesk.LookupResult{
		Complaints: make([]servicedesk.Complaint, len(w.Complaints)),
		Invoices:   make([]invoicing.Invoice, len(w.Invoices)),
	}
	if w.Customer != nil {
		customer := w.Customer.toDomain()
		result.Customer = &customer
	}
	for i := range w.Complaints {
		result.Complaints[i] = w.Complaints[i].toDomain()
	}
	for i := range w.Invoices {
		result.Invoices[i] = w.Invoices[i].toRecord().Invoice
	}
	return result, nil
}

// =============================================================================
// Complaints
// =============================================================================

// ListComplaints returns every complaint
func (c *Client) ListComplaints(ctx context.Context, session shared.Session) ([]servicedesk.Complaint, error) {
	var list listOf[wireComplaint]
	if err := c.do(ctx, session, http.MethodGet, "/complaints", nil, &list); err != nil {
		return nil, err
	}
	out := make([]servicedesk.Complaint, len(list))
	for i := range list {
		out[i] = list[i].toDomain()
	}
	return out, nil
}

// GetComplaint returns one complaint
func (c *Client) GetComplaint(ctx context.Context, session shared.Session, id string) (*servicedesk.Complaint, error) {
	var w wireComplaint
	if err := c.do(ctx, session, http.MethodGet, idPath("complaints", id), nil, &w); err != nil {
		return nil, err
	}
	complaint := w.toDomain()
	return &complaint, nil
}

// CreateComplaint raises a complaint
func (c *Client) CreateComplaint(ctx context.Context, session shared.Session, complaint *servicedesk.Complaint) (*servicedesk.Complaint, error) {
	var w wireComplaint
	req := complaintRequest{
		CustomerID:  complaint.CustomerID,
		Mobile:      complaint.Mobile,
		Services:    complaint.Services,
		Description: complaint.Description,
	}
	if err := c.do(ctx, session, http.MethodPost, "/complaints", req, &w); err != nil {
		return nil, err
	}
	created := w.toDomain()
	return &created, nil
}

// UpdateComplaintStatus sets a complaint's status
func (c *Client) UpdateComplaintStatus(ctx context.Context, session shared.Session, id string, status servicedesk.ComplaintStatus) (*servicedesk.Complaint, error) {
	var w wireComplaint
	if err := c.do(ctx, session, http.MethodPut, idPath("complaints", id), statusRequest{Status: status.String()}, &w); err != nil {
		return nil, err
	}
	updated := w.toDomain()
	if updated.ID == "" {
		updated.ID = id
		updated.Status = status
	}
	return &updated, nil
}

// =============================================================================
// Invoices
// =============================================================================

// ListInvoices returns every invoice with its buyer when the store embeds it
func (c *Client) ListInvoices(ctx context.Context, session shared.Session) ([]servicedesk.InvoiceRecord, error) {
	var list listOf[wireInvoice]
	if err := c.do(ctx, session, http.MethodGet, "/invoices", nil, &list); err != nil {
		return nil, err
	}
	out := make([]servicedesk.InvoiceRecord, len(list))
	for i := range list {
		out[i] = list[i].toRecord()
	}
	return out, nil
}

// GetInvoice returns one invoice
func (c *Client) GetInvoice(ctx context.Context, session shared.Session, id string) (*servicedesk.InvoiceRecord, error) {
	var w wireInvoice
	if err := c.do(ctx, session, http.MethodGet, idPath("invoices", id), nil, &w); err != nil {
		return nil, err
	}
	record := w.toRecord()
	return &record, nil
}

// CreateInvoice submits a validated invoice and returns the stored record
func (c *Client) CreateInvoice(ctx context.Context, session shared.Session, inv *invoicing.Invoice) (*servicedesk.InvoiceRecord, error) {
	var w wireInvoice
	if err := c.do(ctx, session, http.MethodPost, "/invoices", newInvoiceRequest(inv), &w); err != nil {
		return nil, err
	}
	record := w.toRecord()
	if record.Invoice.InvoiceNumber == "" {
		id := record.Invoice.ID
		record.Invoice = *inv
		record.Invoice.ID = id
	}
	return &record, nil
}

// DeleteInvoice removes an invoice
func (c *Client) DeleteInvoice(ctx context.Context, session shared.Session, id string) error {
	return c.do(ctx, session, http.MethodDelete, idPath("invoices", id), nil, nil)
}
