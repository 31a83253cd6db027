package invoicing

import (
	"strings"
	"time"

	"github.com/vikalp/backend/internal/domain/shared"
)

// StatutoryDetails are the optional delivery and reference fields printed
// in the metadata grid of a tax invoice
type StatutoryDetails struct {
	DeliveryNote       string `json:"deliveryNote,omitempty"`
	ModeTermsOfPayment string `json:"modeTermsOfPayment,omitempty"`
	ReferenceNoAndDate string `json:"referenceNoAndDate,omitempty"`
	OtherReferences    string `json:"otherReferences,omitempty"`
	DispatchDocNo      string `json:"dispatchDocNo,omitempty"`
	DeliveryNoteDate   string `json:"deliveryNoteDate,omitempty"`
	DispatchedThrough  string `json:"dispatchedThrough,omitempty"`
	Destination        string `json:"destination,omitempty"`
	TermsOfDelivery    string `json:"termsOfDelivery,omitempty"`
}

// Invoice is a tax invoice as held by the record store.
// Monetary aggregates are never stored on it; Totals recomputes them.
type Invoice struct {
	ID            string
	InvoiceNumber string
	InvoiceDate   time.Time
	CustomerID    string
	Items         []LineItem
	PaymentStatus PaymentStatus
	Details       StatutoryDetails
	CreatedAt     time.Time
}

// Totals recomputes all money figures from the items
func (inv *Invoice) Totals() Totals {
	return Compute(inv.Items)
}

// Validate checks the invoice before it is submitted
func (inv *Invoice) Validate() error {
	var errs shared.ValidationErrors

	if strings.TrimSpace(inv.CustomerID) == "" {
		errs.Add("customerId", "Please select a customer")
	}
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		errs.Add("invoiceNumber", "Invoice number is required")
	}
	if len(inv.Items) == 0 {
		errs.Add("items", "Please add at least one service item")
	}
	for i, item := range inv.Items {
		errs.Merge(item.Validate(i))
	}
	if inv.PaymentStatus != "" && !inv.PaymentStatus.IsValid() {
		errs.Add("paymentStatus", "Unknown payment status "+string(inv.PaymentStatus))
	}

	return errs.OrNil()
}
