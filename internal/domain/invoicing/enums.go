package invoicing

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// UnitOfMeasure is the unit a line item quantity is counted in
type UnitOfMeasure string

const (
	UnitPcs UnitOfMeasure = "Pcs"
	UnitNos UnitOfMeasure = "Nos"
	UnitKg  UnitOfMeasure = "Kg"
	UnitMtr UnitOfMeasure = "Mtr"
	UnitBox UnitOfMeasure = "Box"
	UnitSet UnitOfMeasure = "Set"
)

// DefaultUnit is used for new line items
const DefaultUnit = UnitPcs

// IsValid checks if the unit is a known value
func (u UnitOfMeasure) IsValid() bool {
	return slices.Contains(AllUnits(), u)
}

// String returns the string representation of UnitOfMeasure
func (u UnitOfMeasure) String() string {
	return string(u)
}

// AllUnits returns all valid units in display order
func AllUnits() []UnitOfMeasure {
	return []UnitOfMeasure{UnitPcs, UnitNos, UnitKg, UnitMtr, UnitBox, UnitSet}
}

// GSTRate is a GST slab in whole percent
type GSTRate int

const (
	GST0  GSTRate = 0
	GST5  GSTRate = 5
	GST12 GSTRate = 12
	GST18 GSTRate = 18
	GST28 GSTRate = 28
)

// DefaultGSTRate is used for new line items
const DefaultGSTRate = GST18

// IsValid checks if the rate is one of the GST slabs
func (r GSTRate) IsValid() bool {
	switch r {
	case GST0, GST5, GST12, GST18, GST28:
		return true
	}
	return false
}

// Decimal returns the rate as a decimal percentage
func (r GSTRate) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(r))
}

// Half returns the CGST (or SGST) rate, which is half the slab
func (r GSTRate) Half() decimal.Decimal {
	return r.Decimal().Div(decimal.NewFromInt(2))
}

// String returns the rate formatted as a percentage, e.g. "18%"
func (r GSTRate) String() string {
	return strconv.Itoa(int(r)) + "%"
}

// AllGSTRates returns all slabs in ascending order
func AllGSTRates() []GSTRate {
	return []GSTRate{GST0, GST5, GST12, GST18, GST28}
}

// PaymentStatus tracks whether an invoice has been settled
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
)

// IsValid checks if the status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentPartial:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}
