package invoicing

import (
	"fmt"
	"time"

	"github.com/vikalp/backend/internal/domain/shared"
)

// Draft accumulates an invoice while it is being filled in.
// Totals are recomputed on every call; nothing is cached.
type Draft struct {
	CustomerID    string           `json:"customerId"`
	InvoiceNumber string           `json:"invoiceNumber,omitempty"`
	InvoiceDate   time.Time        `json:"invoiceDate,omitzero"`
	PaymentStatus PaymentStatus    `json:"paymentStatus"`
	Details       StatutoryDetails `json:"details"`
	Items         []LineItem       `json:"items"`
}

// NewDraft returns a draft holding one default item
func NewDraft() *Draft {
	return &Draft{
		PaymentStatus: PaymentUnpaid,
		Items:         []LineItem{NewLineItem()},
	}
}

// AddItem appends a default item and returns its index
func (d *Draft) AddItem() int {
	d.Items = append(d.Items, NewLineItem())
	return len(d.Items) - 1
}

// RemoveItem deletes the item at index. The last remaining item is kept.
func (d *Draft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("No item at position %d", index+1))
	}
	if len(d.Items) == 1 {
		return shared.NewDomainError("INVALID_STATE", "An invoice needs at least one item")
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

// UpdateItem replaces the item at index
func (d *Draft) UpdateItem(index int, item LineItem) error {
	if index < 0 || index >= len(d.Items) {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("No item at position %d", index+1))
	}
	d.Items[index] = item
	return nil
}

// Totals recomputes the live totals of the draft
func (d *Draft) Totals() Totals {
	return Compute(d.Items)
}

// Validate returns every problem that blocks submission
func (d *Draft) Validate() error {
	inv := d.toInvoice()
	if inv.InvoiceNumber == "" {
		// A blank number is filled in at submission
		inv.InvoiceNumber = "pending"
	}
	return inv.Validate()
}

// Submit validates the draft and converts it into an invoice.
// number is used when the draft does not carry its own invoice number.
func (d *Draft) Submit(now time.Time, number string) (*Invoice, error) {
	inv := d.toInvoice()
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = number
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = now
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (d *Draft) toInvoice() *Invoice {
	status := d.PaymentStatus
	if status == "" {
		status = PaymentUnpaid
	}
	items := make([]LineItem, len(d.Items))
	for i, item := range d.Items {
		item.Per = item.UnitOrDefault()
		items[i] = item
	}
	return &Invoice{
		InvoiceNumber: d.InvoiceNumber,
		InvoiceDate:   d.InvoiceDate,
		CustomerID:    d.CustomerID,
		Items:         items,
		PaymentStatus: status,
		Details:       d.Details,
	}
}
