package servicedesk

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vikalp/backend/internal/domain/invoicing"
)

// LookupResult is everything the shop holds for one mobile number.
// It is returned to the caller instead of being parked in shared state.
type LookupResult struct {
	Customer   *Customer
	Complaints []Complaint
	Invoices   []invoicing.Invoice
}

// InvoiceRecord is an invoice together with its buyer when the record store
// returned the buyer embedded. Customer is nil when only the ID was sent.
type InvoiceRecord struct {
	Invoice  invoicing.Invoice
	Customer *Customer
}

// CustomerOr returns the embedded buyer, or the first customer in known with a matching ID
func (r *InvoiceRecord) CustomerOr(known []Customer) *Customer {
	if r.Customer != nil {
		return r.Customer
	}
	for i := range known {
		if known[i].ID == r.Invoice.CustomerID {
			return &known[i]
		}
	}
	return nil
}

// DashboardStats are the headline figures for the admin dashboard
type DashboardStats struct {
	TotalCustomers    int             `json:"totalCustomers"`
	TotalComplaints   int             `json:"totalComplaints"`
	TotalInvoices     int             `json:"totalInvoices"`
	PendingComplaints int             `json:"pendingComplaints"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
}

// ComputeDashboardStats derives dashboard figures. Revenue is the sum of
// recomputed grand totals, not of totals stored with the invoices.
func ComputeDashboardStats(customers []Customer, complaints []Complaint, invoices []invoicing.Invoice) DashboardStats {
	stats := DashboardStats{
		TotalCustomers:  len(customers),
		TotalComplaints: len(complaints),
		TotalInvoices:   len(invoices),
		TotalRevenue:    decimal.Zero,
	}
	for _, c := range complaints {
		if c.Status != ComplaintCompleted {
			stats.PendingComplaints++
		}
	}
	for i := range invoices {
		stats.TotalRevenue = stats.TotalRevenue.Add(invoices[i].Totals().GrandTotal)
	}
	return stats
}

// MatchesInvoice reports whether query matches the invoice number or the
// buyer's name or mobile, ignoring case. An empty query matches everything.
func MatchesInvoice(inv *invoicing.Invoice, customer *Customer, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(inv.InvoiceNumber), q) {
		return true
	}
	if customer == nil {
		return false
	}
	return strings.Contains(strings.ToLower(customer.Name), q) ||
		strings.Contains(customer.Mobile, q)
}
