package printing

import (
	"strconv"
	"strings"
	"time"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
)

// Placeholder is printed for any optional field without a value
const Placeholder = "-"

// NotAvailable is printed when the buyer name is unknown
const NotAvailable = "N/A"

// DateLayout is the printed date format, e.g. 05-Jun-25
const DateLayout = "02-Jan-06"

// Declaration is the fixed legal statement printed on every invoice
const Declaration = "We declare that this invoice shows the actual price of the goods described and that all particulars are true and correct."

// MetaCell is one label/value pair of the metadata grid
type MetaCell struct {
	Label string
	Value string
}

// MetaRow is one line of the metadata grid, one or two cells wide
type MetaRow []MetaCell

// PartyBlock is the seller or buyer address block
type PartyBlock struct {
	Name         string
	AddressLines []string
	Phone        string
	GSTIN        string
	StateName    string
	StateCode    string
	Email        string
}

// ItemRow is one printed line of the item table
type ItemRow struct {
	Serial      int
	Description string
	HSNCode     string
	GSTRate     string
	Quantity    string
	Rate        string
	Per         string
	Discount    string
	Amount      string // taxable amount
	LineTotal   string // amount including GST
}

// TaxRow is one CGST or SGST line of the tax summary
type TaxRow struct {
	Label  string
	Rate   string
	Amount string
}

// InvoiceDocument is the complete printable description of a tax invoice.
// It is a pure function of the invoice, buyer, and seller; every layout
// renders from it, so all layouts show the same figures.
type InvoiceDocument struct {
	Title         string
	InvoiceNumber string
	InvoiceDate   string
	PaymentStatus string
	Seller        PartyBlock
	Buyer         PartyBlock
	Meta          []MetaRow
	Rows          []ItemRow
	TaxRows       []TaxRow
	Subtotal      string
	GSTTotal      string
	CGST          string
	SGST          string
	GrandTotal    string
	TotalQuantity string
	AmountInWords string
	Declaration   string
	SignatoryFor  string
	SignatoryRole string
	Jurisdiction  string
	FooterNote    string

	// Totals keeps the unformatted figures the strings above were built from
	Totals invoicing.Totals
}

// NewInvoiceDocument builds the printable description of inv.
// customer may be nil when the buyer could not be resolved.
func NewInvoiceDocument(inv *invoicing.Invoice, customer *servicedesk.Customer, seller SellerProfile) *InvoiceDocument {
	totals := inv.Totals()

	doc := &InvoiceDocument{
		Title:         "Tax Invoice",
		InvoiceNumber: orPlaceholder(inv.InvoiceNumber),
		InvoiceDate:   formatTime(inv.InvoiceDate),
		PaymentStatus: orPlaceholder(inv.PaymentStatus.String()),
		Seller: PartyBlock{
			Name:         seller.Name,
			AddressLines: seller.AddressLines,
			Phone:        seller.Phone,
			GSTIN:        orPlaceholder(seller.GSTIN),
			StateName:    seller.StateName,
			StateCode:    seller.StateCode,
			Email:        seller.Email,
		},
		Buyer:         buyerBlock(customer, seller),
		Subtotal:      invoicing.FormatINR(totals.Subtotal),
		GSTTotal:      invoicing.FormatINR(totals.GSTTotal),
		CGST:          invoicing.FormatINR(totals.CGST),
		SGST:          invoicing.FormatINR(totals.SGST),
		GrandTotal:    invoicing.FormatINR(totals.GrandTotal),
		TotalQuantity: totalQuantity(inv.Items, totals.TotalQuantity),
		AmountInWords: invoicing.AmountInWords(totals.GrandTotal),
		Declaration:   Declaration,
		SignatoryFor:  "for " + seller.Name,
		SignatoryRole: "Authorised Signatory",
		Jurisdiction:  "SUBJECT TO " + strings.ToUpper(seller.Jurisdiction) + " JURISDICTION",
		FooterNote:    "This is a Computer Generated Invoice",
		Totals:        totals,
	}

	doc.Meta = metaRows(inv, doc.InvoiceDate)

	doc.Rows = make([]ItemRow, len(inv.Items))
	for i, item := range inv.Items {
		line := totals.Lines[i]
		discount := Placeholder
		if item.Discount.IsPositive() {
			discount = invoicing.FormatPercent(item.Discount)
		}
		unit := item.UnitOrDefault().String()
		doc.Rows[i] = ItemRow{
			Serial:      i + 1,
			Description: orPlaceholder(item.ServiceName),
			HSNCode:     orPlaceholder(item.HSNCode),
			GSTRate:     item.GSTPercent.String(),
			Quantity:    strconv.Itoa(item.Quantity) + " " + unit,
			Rate:        invoicing.FormatINR(item.UnitPrice),
			Per:         unit,
			Discount:    discount,
			Amount:      invoicing.FormatINR(line.TaxableAmount),
			LineTotal:   invoicing.FormatINR(line.LineTotal),
		}
	}

	for _, b := range totals.TaxedBuckets() {
		half := invoicing.FormatPercent(b.Rate.Half())
		doc.TaxRows = append(doc.TaxRows,
			TaxRow{Label: "CGST Output @ " + half, Rate: half, Amount: invoicing.FormatINR(b.CGST)},
			TaxRow{Label: "SGST Output @ " + half, Rate: half, Amount: invoicing.FormatINR(b.SGST)},
		)
	}

	return doc
}

func metaRows(inv *invoicing.Invoice, date string) []MetaRow {
	d := inv.Details
	return []MetaRow{
		{{"Invoice No.", orPlaceholder(inv.InvoiceNumber)}, {"Dated", date}},
		{{"Delivery Note", orPlaceholder(d.DeliveryNote)}, {"Mode/Terms of Payment", orPlaceholder(d.ModeTermsOfPayment)}},
		{{"Reference No. & Date.", orPlaceholder(d.ReferenceNoAndDate)}, {"Other References", orPlaceholder(d.OtherReferences)}},
		{{"Dispatch Doc No.", orPlaceholder(d.DispatchDocNo)}, {"Delivery Note Date", formatDateString(d.DeliveryNoteDate)}},
		{{"Dispatched through", orPlaceholder(d.DispatchedThrough)}, {"Destination", orPlaceholder(d.Destination)}},
		{{"Terms of Delivery", orPlaceholder(d.TermsOfDelivery)}},
	}
}

func buyerBlock(c *servicedesk.Customer, seller SellerProfile) PartyBlock {
	block := PartyBlock{
		Name:         NotAvailable,
		AddressLines: []string{seller.City},
		Phone:        Placeholder,
		StateName:    seller.StateName,
		StateCode:    seller.StateCode,
	}
	if c == nil {
		return block
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		block.Name = name
	}
	if addr := strings.TrimSpace(c.Address); addr != "" {
		block.AddressLines = []string{addr}
	}
	if c.Mobile != "" {
		block.Phone = c.Mobile
	}
	return block
}

// totalQuantity labels the quantity sum with the shared unit, or Pcs when units differ
func totalQuantity(items []invoicing.LineItem, total int) string {
	unit := invoicing.DefaultUnit
	if len(items) > 0 {
		unit = items[0].UnitOrDefault()
		for _, item := range items[1:] {
			if item.UnitOrDefault() != unit {
				unit = invoicing.DefaultUnit
				break
			}
		}
	}
	return strconv.Itoa(total) + " " + unit.String()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(DateLayout)
}

var dateInputLayouts = []string{time.RFC3339, "2006-01-02", "02-01-2006", "02/01/2006"}

// formatDateString prints a free-text date in DateLayout when it parses, and verbatim otherwise
func formatDateString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == Placeholder {
		return Placeholder
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}
