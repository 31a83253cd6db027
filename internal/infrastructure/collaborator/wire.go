package collaborator

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
)

// Wire shapes of the record store. Documents carry either "id" or "_id";
// references may arrive as a bare ID or as the embedded document.

type wireCustomer struct {
	ID      string `json:"id,omitempty"`
	MongoID string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

func (w *wireCustomer) toDomain() servicedesk.Customer {
	return servicedesk.Customer{
		ID:      firstNonEmpty(w.ID, w.MongoID),
		Name:    w.Name,
		Mobile:  w.Mobile,
		Address: w.Address,
	}
}

// customerRef decodes a reference that is either an ID string or a customer object
type customerRef struct {
	ID       string
	Customer *servicedesk.Customer
}

func (r *customerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var c wireCustomer
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	customer := c.toDomain()
	r.ID = customer.ID
	r.Customer = &customer
	return nil
}

type wireComplaint struct {
	ID          string      `json:"id,omitempty"`
	MongoID     string      `json:"_id,omitempty"`
	ComplaintID string      `json:"complaintId,omitempty"`
	Customer    customerRef `json:"customer"`
	CustomerID  string      `json:"customerId,omitempty"`
	Mobile      string      `json:"mobile,omitempty"`
	Services    []string    `json:"services"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	CreatedAt   wireTime    `json:"createdAt"`
}

func (w *wireComplaint) toDomain() servicedesk.Complaint {
	return servicedesk.Complaint{
		ID:          firstNonEmpty(w.ID, w.MongoID),
		ComplaintID: w.ComplaintID,
		CustomerID:  firstNonEmpty(w.CustomerID, w.Customer.ID),
		Mobile:      w.Mobile,
		Services:    w.Services,
		Description: w.Description,
		Status:      servicedesk.ComplaintStatus(w.Status),
		CreatedAt:   w.CreatedAt.Time,
	}
}

type wireItem struct {
	ServiceName string          `json:"serviceName"`
	HSNCode     string          `json:"hsnCode"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Per         string          `json:"per"`
	Discount    decimal.Decimal `json:"discount"`
	GSTPercent  int             `json:"gstPercent"`
}

type wireInvoice struct {
	ID            string      `json:"id,omitempty"`
	MongoID       string      `json:"_id,omitempty"`
	InvoiceNumber string      `json:"invoiceNumber"`
	InvoiceDate   wireTime    `json:"invoiceDate"`
	Customer      customerRef `json:"customer"`
	CustomerID    string      `json:"customerId,omitempty"`
	Items         []wireItem  `json:"items"`
	PaymentStatus string      `json:"paymentStatus"`
	CreatedAt     wireTime    `json:"createdAt"`
	invoicing.StatutoryDetails
}

func (w *wireInvoice) toRecord() servicedesk.InvoiceRecord {
	items := make([]invoicing.LineItem, len(w.Items))
	for i, it := range w.Items {
		items[i] = invoicing.LineItem{
			ServiceName: it.ServiceName,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Per:         invoicing.UnitOfMeasure(it.Per),
			Discount:    it.Discount,
			GSTPercent:  invoicing.GSTRate(it.GSTPercent),
		}
	}
	date := w.InvoiceDate.Time
	if date.IsZero() {
		date = w.CreatedAt.Time
	}
	return servicedesk.InvoiceRecord{
		Invoice: invoicing.Invoice{
			ID:            firstNonEmpty(w.ID, w.MongoID),
			InvoiceNumber: w.InvoiceNumber,
			InvoiceDate:   date,
			CustomerID:    firstNonEmpty(w.CustomerID, w.Customer.ID),
			Items:         items,
			PaymentStatus: invoicing.PaymentStatus(w.PaymentStatus),
			Details:       w.StatutoryDetails,
			CreatedAt:     w.CreatedAt.Time,
		},
		Customer: w.Customer.Customer,
	}
}

// invoiceRequest is the submission body: flat statutory fields, money as JSON numbers
type invoiceRequest struct {
	CustomerID    string        `json:"customerId"`
	InvoiceNumber string        `json:"invoiceNumber,omitempty"`
	InvoiceDate   string        `json:"invoiceDate,omitempty"`
	PaymentStatus string        `json:"paymentStatus"`
	Items         []itemRequest `json:"items"`
	invoicing.StatutoryDetails
}

type itemRequest struct {
	ServiceName string      `json:"serviceName"`
	HSNCode     string      `json:"hsnCode"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unitPrice"`
	Per         string      `json:"per"`
	Discount    json.Number `json:"discount"`
	GSTPercent  int         `json:"gstPercent"`
}

func newInvoiceRequest(inv *invoicing.Invoice) invoiceRequest {
	req := invoiceRequest{
		CustomerID:       inv.CustomerID,
		InvoiceNumber:    inv.InvoiceNumber,
		PaymentStatus:    inv.PaymentStatus.String(),
		Items:            make([]itemRequest, len(inv.Items)),
		StatutoryDetails: inv.Details,
	}
	if !inv.InvoiceDate.IsZero() {
		req.InvoiceDate = inv.InvoiceDate.Format(time.RFC3339)
	}
	for i, it := range inv.Items {
		req.Items[i] = itemRequest{
			ServiceName: it.ServiceName,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			UnitPrice:   json.Number(it.UnitPrice.String()),
			Per:         it.UnitOrDefault().String(),
			Discount:    json.Number(it.Discount.String()),
			GSTPercent:  int(it.GSTPercent),
		}
	}
	return req
}

type complaintRequest struct {
	CustomerID  string   `json:"customerId"`
	Mobile      string   `json:"mobile,omitempty"`
	Services    []string `json:"services"`
	Description string   `json:"description"`
}

type customerRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type wireLookup struct {
	Customer   *wireCustomer   `json:"customer"`
	Complaints []wireComplaint `json:"complaints"`
	Invoices   []wireInvoice   `json:"invoices"`
}

// wireTime accepts RFC 3339 timestamps, bare dates and empty strings
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value leaves the zero time
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// errorBody is the record store's error envelope
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
