// Package invoicing contains the Invoicing bounded context.
// It owns the GST money arithmetic for line items and invoices, the
// Indian-numbering amount-in-words phrase, display formatting for rupee
// amounts, and the draft builder that validates an invoice before it is
// handed to the record store.
package invoicing
