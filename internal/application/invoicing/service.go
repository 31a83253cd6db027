package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/infrastructure/logger"
	"github.com/vikalp/backend/internal/infrastructure/telemetry"
)

// RecordStore is the shop's record store. The collaborator client implements it.
type RecordStore interface {
	ListCustomers(ctx context.Context, session shared.Session) ([]servicedesk.Customer, error)
	GetCustomer(ctx context.Context, session shared.Session, id string) (*servicedesk.Customer, error)
	CreateCustomer(ctx context.Context, session shared.Session, customer *servicedesk.Customer) (*servicedesk.Customer, error)
	UpdateCustomer(ctx context.Context, session shared.Session, customer *servicedesk.Customer) (*servicedesk.Customer, error)
	DeleteCustomer(ctx context.Context, session shared.Session, id string) error
	LookupCustomer(ctx context.Context, session shared.Session, mobile string) (*servicedesk.LookupResult, error)

	ListComplaints(ctx context.Context, session shared.Session) ([]servicedesk.Complaint, error)
	GetComplaint(ctx context.Context, session shared.Session, id string) (*servicedesk.Complaint, error)
	CreateComplaint(ctx context.Context, session shared.Session, complaint *servicedesk.Complaint) (*servicedesk.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, session shared.Session, id string, status servicedesk.ComplaintStatus) (*servicedesk.Complaint, error)

	ListInvoices(ctx context.Context, session shared.Session) ([]servicedesk.InvoiceRecord, error)
	GetInvoice(ctx context.Context, session shared.Session, id string) (*servicedesk.InvoiceRecord, error)
	CreateInvoice(ctx context.Context, session shared.Session, inv *invoicing.Invoice) (*servicedesk.InvoiceRecord, error)
	DeleteInvoice(ctx context.Context, session shared.Session, id string) error
}

// InvoiceService handles invoice, customer, and complaint operations
type InvoiceService struct {
	store  RecordStore
	seller printing.SellerProfile
	logger *zap.Logger
	now    func() time.Time
}

// ServiceOption configures an InvoiceService
type ServiceOption func(*InvoiceService)

// WithClock overrides the clock used for invoice dates and numbers
func WithClock(now func() time.Time) ServiceOption {
	return func(s *InvoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(store RecordStore, seller printing.SellerProfile, log *zap.Logger, opts ...ServiceOption) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &InvoiceService{
		store:  store,
		seller: seller,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log prefers the request logger, which carries request and user IDs
func (s *InvoiceService) log(ctx context.Context) *zap.Logger {
	return logger.WithTraceContext(ctx, logger.FromContextOr(ctx, s.logger))
}

// Seller returns the shop identity printed on documents
func (s *InvoiceService) Seller() printing.SellerProfile {
	return s.seller
}

// =============================================================================
// Invoices
// =============================================================================

// Calculate returns the live totals of a draft item list. No I/O.
func (s *InvoiceService) Calculate(items []invoicing.LineItem) invoicing.Totals {
	return invoicing.Compute(items)
}

// Submit validates the draft and creates the invoice in the record store.
// Validation failures return before any network call. A draft without an
// invoice number gets the next shop-assigned number.
func (s *InvoiceService) Submit(ctx context.Context, session shared.Session, draft *invoicing.Draft) (*InvoiceResponse, error) {
	if draft == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice draft is required")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Submit")
	var err error
	defer func() { telemetry.EndSpan(span, err) }()

	now := s.now()
	number := ""
	if strings.TrimSpace(draft.InvoiceNumber) == "" {
		var existing []servicedesk.InvoiceRecord
		existing, err = s.store.ListInvoices(ctx, session)
		if err != nil {
			return nil, fmt.Errorf("failed to list invoice numbers: %w", err)
		}
		numbers := make([]string, len(existing))
		for i := range existing {
			numbers[i] = existing[i].Invoice.InvoiceNumber
		}
		number = invoicing.GenerateInvoiceNumber(now, invoicing.NextInvoiceSequence(now, numbers))
	}

	var inv *invoicing.Invoice
	inv, err = draft.Submit(now, number)
	if err != nil {
		return nil, err
	}

	var record *servicedesk.InvoiceRecord
	record, err = s.store.CreateInvoice(ctx, session, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.log(ctx).Info("Invoice submitted",
		zap.String("invoice_id", record.Invoice.ID),
		zap.String("invoice_number", record.Invoice.InvoiceNumber),
		zap.String("grand_total", record.Invoice.Totals().GrandTotal.StringFixed(2)),
	)

	resp := ToInvoiceResponse(&record.Invoice, record.Customer)
	return &resp, nil
}

// Get returns one invoice with its buyer and recomputed totals
func (s *InvoiceService) Get(ctx context.Context, session shared.Session, id string) (*InvoiceResponse, error) {
	record, customer, err := s.resolve(ctx, session, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(&record.Invoice, customer)
	return &resp, nil
}

// List returns the invoices matching query by number, buyer name, or mobile
func (s *InvoiceService) List(ctx context.Context, session shared.Session, query string) ([]InvoiceResponse, error) {
	records, err := s.store.ListInvoices(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	customers, err := s.customersFor(ctx, session, records)
	if err != nil {
		return nil, err
	}

	out := make([]InvoiceResponse, 0, len(records))
	for i := range records {
		customer := records[i].CustomerOr(customers)
		if !servicedesk.MatchesInvoice(&records[i].Invoice, customer, query) {
			continue
		}
		out = append(out, ToInvoiceResponse(&records[i].Invoice, customer))
	}
	return out, nil
}

// Delete removes an invoice from the record store
func (s *InvoiceService) Delete(ctx context.Context, session shared.Session, id string) error {
	if strings.TrimSpace(id) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Invoice ID is required")
	}
	if err := s.store.DeleteInvoice(ctx, session, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	s.log(ctx).Info("Invoice deleted", zap.String("invoice_id", id))
	return nil
}

// ResolveDocument loads an invoice and its buyer and builds the printable document
func (s *InvoiceService) ResolveDocument(ctx context.Context, session shared.Session, invoiceID string) (*printing.InvoiceDocument, *invoicing.Invoice, error) {
	record, customer, err := s.resolve(ctx, session, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return printing.NewInvoiceDocument(&record.Invoice, customer, s.seller), &record.Invoice, nil
}

// resolve fetches an invoice and joins its buyer. A buyer that cannot be
// found prints as N/A rather than failing the request.
func (s *InvoiceService) resolve(ctx context.Context, session shared.Session, id string) (*servicedesk.InvoiceRecord, *servicedesk.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "Invoice ID is required")
	}
	record, err := s.store.GetInvoice(ctx, session, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if record.Customer != nil || record.Invoice.CustomerID == "" {
		return record, record.Customer, nil
	}

	customer, err := s.store.GetCustomer(ctx, session, record.Invoice.CustomerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, fmt.Errorf("failed to get customer: %w", err)
		}
		s.log(ctx).Warn("Invoice buyer not found",
			zap.String("invoice_id", id),
			zap.String("customer_id", record.Invoice.CustomerID))
		customer = nil
	}
	return record, customer, nil
}

// customersFor loads the customer list only when some record lacks an embedded buyer
func (s *InvoiceService) customersFor(ctx context.Context, session shared.Session, records []servicedesk.InvoiceRecord) ([]servicedesk.Customer, error) {
	for i := range records {
		if records[i].Customer == nil && records[i].Invoice.CustomerID != "" {
			customers, err := s.store.ListCustomers(ctx, session)
			if err != nil {
				return nil, fmt.Errorf("failed to list customers: %w", err)
			}
			return customers, nil
		}
	}
	return nil, nil
}

// =============================================================================
// Complaints
// =============================================================================

// DraftFromComplaint prefills an invoice draft from a completed complaint
func (s *InvoiceService) DraftFromComplaint(ctx context.Context, session shared.Session, complaintID string) (*DraftResponse, error) {
	if strings.TrimSpace(complaintID) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Complaint ID is required")
	}
	complaint, err := s.store.GetComplaint(ctx, session, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	draft, err := servicedesk.PrefillDraft(complaint)
	if err != nil {
		return nil, err
	}
	return &DraftResponse{Draft: draft, Totals: draft.Totals()}, nil
}

// RaiseComplaint validates and opens a complaint. New complaints start Pending.
func (s *InvoiceService) RaiseComplaint(ctx context.Context, session shared.Session, req RaiseComplaintRequest) (*servicedesk.Complaint, error) {
	complaint := &servicedesk.Complaint{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		Services:    trimAll(req.Services),
		Description: strings.TrimSpace(req.Description),
		Status:      servicedesk.ComplaintPending,
	}
	if req.Mobile != "" {
		complaint.Mobile = servicedesk.NormalizeMobile(req.Mobile)
	}
	if err := complaint.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.CreateComplaint(ctx, session, complaint)
	if err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	s.log(ctx).Info("Complaint raised",
		zap.String("complaint_id", created.ID),
		zap.Strings("services", complaint.Services))
	return created, nil
}

// UpdateComplaintStatus checks the transition locally, then forwards it
func (s *InvoiceService) UpdateComplaintStatus(ctx context.Context, session shared.Session, complaintID string, status servicedesk.ComplaintStatus) (*servicedesk.Complaint, error) {
	complaint, err := s.store.GetComplaint(ctx, session, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	from := complaint.Status
	if err := complaint.TransitionTo(status); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateComplaintStatus(ctx, session, complaintID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update complaint status: %w", err)
	}

	s.log(ctx).Info("Complaint status updated",
		zap.String("complaint_id", complaintID),
		zap.String("from", from.String()),
		zap.String("to", status.String()))
	return updated, nil
}

// =============================================================================
// Customers
// =============================================================================

// RegisterCustomer validates and creates a customer
func (s *InvoiceService) RegisterCustomer(ctx context.Context, session shared.Session, req CreateCustomerRequest) (*servicedesk.Customer, error) {
	customer, err := newCustomer("", req.Name, req.Mobile, req.Address)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateCustomer(ctx, session, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.log(ctx).Info("Customer registered", zap.String("customer_id", created.ID))
	return created, nil
}

// UpdateCustomer validates and replaces a customer's details
func (s *InvoiceService) UpdateCustomer(ctx context.Context, session shared.Session, id string, req UpdateCustomerRequest) (*servicedesk.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
	}
	customer, err := newCustomer(id, req.Name, req.Mobile, req.Address)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCustomer(ctx, session, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	s.log(ctx).Info("Customer updated", zap.String("customer_id", id))
	return updated, nil
}

// DeleteCustomer removes a customer from the record store
func (s *InvoiceService) DeleteCustomer(ctx context.Context, session shared.Session, id string) error {
	if strings.TrimSpace(id) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
	}
	if err := s.store.DeleteCustomer(ctx, session, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.log(ctx).Info("Customer deleted", zap.String("customer_id", id))
	return nil
}

func newCustomer(id, name, mobile, address string) (*servicedesk.Customer, error) {
	customer := &servicedesk.Customer{
		ID:      id,
		Name:    strings.TrimSpace(name),
		Mobile:  servicedesk.NormalizeMobile(mobile),
		Address: strings.TrimSpace(address),
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return customer, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Lookup returns the customer, complaints, and invoices held for a mobile number
func (s *InvoiceService) Lookup(ctx context.Context, session shared.Session, mobile string) (*LookupResponse, error) {
	result, err := s.lookup(ctx, session, mobile)
	if err != nil {
		return nil, err
	}
	resp := ToLookupResponse(result)
	return &resp, nil
}

func (s *InvoiceService) lookup(ctx context.Context, session shared.Session, mobile string) (*servicedesk.LookupResult, error) {
	mobile = servicedesk.NormalizeMobile(mobile)
	if !servicedesk.IsValidMobile(mobile) {
		var errs shared.ValidationErrors
		errs.Add("mobile", "Mobile number must be exactly 10 digits")
		return nil, errs
	}
	result, err := s.store.LookupCustomer(ctx, session, mobile)
	if err != nil {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	return result, nil
}

// LookupDocuments is a document resolver limited to the invoices held under
// one mobile number. It serves customers who are not signed in.
type LookupDocuments struct {
	svc    *InvoiceService
	mobile string
}

// LookupDocuments returns a resolver for the invoices a lookup of mobile returns
func (s *InvoiceService) LookupDocuments(mobile string) *LookupDocuments {
	return &LookupDocuments{svc: s, mobile: mobile}
}

// ResolveDocument builds the document of invoiceID if the lookup holds it.
// Any other invoice is reported as not found.
func (l *LookupDocuments) ResolveDocument(ctx context.Context, session shared.Session, invoiceID string) (*printing.InvoiceDocument, *invoicing.Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "Invoice ID is required")
	}
	result, err := l.svc.lookup(ctx, session, l.mobile)
	if err != nil {
		return nil, nil, err
	}
	for i := range result.Invoices {
		if result.Invoices[i].ID == invoiceID {
			inv := result.Invoices[i]
			return printing.NewInvoiceDocument(&inv, result.Customer, l.svc.seller), &inv, nil
		}
	}
	l.svc.log(ctx).Warn("Invoice not held under looked up mobile", zap.String("invoice_id", invoiceID))
	return nil, nil, shared.NewDomainError("NOT_FOUND", "Invoice not found for this mobile number")
}

// DashboardStats returns the headline figures for the dashboard
func (s *InvoiceService) DashboardStats(ctx context.Context, session shared.Session) (*servicedesk.DashboardStats, error) {
	customers, err := s.store.ListCustomers(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	complaints, err := s.store.ListComplaints(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	records, err := s.store.ListInvoices(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]invoicing.Invoice, len(records))
	for i := range records {
		invoices[i] = records[i].Invoice
	}
	stats := servicedesk.ComputeDashboardStats(customers, complaints, invoices)
	return &stats, nil
}
