package invoicing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vikalp/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a single billable row on an invoice
type LineItem struct {
	ServiceName string          `json:"serviceName"`
	HSNCode     string          `json:"hsnCode"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Per         UnitOfMeasure   `json:"per"`
	Discount    decimal.Decimal `json:"discount"`
	GSTPercent  GSTRate         `json:"gstPercent"`
}

// NewLineItem returns an item with the form defaults:
// quantity 1, price 0, unit Pcs, no discount, 18% GST.
func NewLineItem() LineItem {
	return LineItem{
		Quantity:   1,
		UnitPrice:  decimal.Zero,
		Per:        DefaultUnit,
		Discount:   decimal.Zero,
		GSTPercent: DefaultGSTRate,
	}
}

// UnitOrDefault returns Per, falling back to Pcs when unset
func (li LineItem) UnitOrDefault() UnitOfMeasure {
	if li.Per == "" {
		return DefaultUnit
	}
	return li.Per
}

// Validate checks the item at position index for submission.
// Field names are prefixed with items[index] so callers can map errors back to rows.
func (li LineItem) Validate(index int) shared.ValidationErrors {
	var errs shared.ValidationErrors
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", index, name)
	}

	name := strings.TrimSpace(li.ServiceName)
	if name == "" {
		errs.Add(field("serviceName"), "Service name cannot be empty")
		// Remaining messages quote the service name
		name = fmt.Sprintf("item %d", index+1)
	}
	if !li.UnitPrice.IsPositive() {
		errs.Add(field("unitPrice"), "Please enter a valid price for "+name)
	}
	if li.Quantity < 1 {
		errs.Add(field("quantity"), "Please enter a valid quantity for "+name)
	}
	if li.Discount.IsNegative() || li.Discount.GreaterThan(hundred) {
		errs.Add(field("discount"), "Discount for "+name+" must be between 0 and 100")
	}
	if !li.GSTPercent.IsValid() {
		errs.Add(field("gstPercent"), "GST for "+name+" must be one of 0, 5, 12, 18 or 28")
	}
	if li.Per != "" && !li.Per.IsValid() {
		errs.Add(field("per"), "Unknown unit "+string(li.Per)+" for "+name)
	}
	return errs
}
