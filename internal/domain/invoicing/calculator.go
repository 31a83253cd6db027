package invoicing

import (
	"sort"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// LineAmounts holds the derived money values of one line item
type LineAmounts struct {
	BaseAmount     decimal.Decimal `json:"baseAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableAmount  decimal.Decimal `json:"taxableAmount"`
	GSTAmount      decimal.Decimal `json:"gstAmount"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// TaxBucket is the CGST/SGST breakdown for all items sharing one GST slab
type TaxBucket struct {
	Rate          GSTRate         `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	Total         decimal.Decimal `json:"total"`
}

// Totals holds per-line and aggregate figures for a list of items
type Totals struct {
	Lines         []LineAmounts   `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GSTTotal      decimal.Decimal `json:"gstTotal"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	Buckets       []TaxBucket     `json:"buckets"`
	TotalQuantity int             `json:"totalQuantity"`
}

// ComputeLine derives the money values of a single item.
// Discount is applied first and GST is charged on the discounted amount.
// Zero or negative inputs contribute zero; rejecting them is the draft's job.
func ComputeLine(item LineItem) LineAmounts {
	qty := decimal.NewFromInt(int64(max(item.Quantity, 0)))
	price := nonNegative(item.UnitPrice)
	discount := clampPercent(item.Discount)

	base := qty.Mul(price)
	discountAmount := base.Mul(discount).Div(hundred)
	taxable := base.Sub(discountAmount)
	gst := taxable.Mul(nonNegative(item.GSTPercent.Decimal())).Div(hundred)

	return LineAmounts{
		BaseAmount:     base,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		GSTAmount:      gst,
		LineTotal:      taxable.Add(gst),
	}
}

// Compute derives per-line amounts, aggregates, and the per-slab tax breakdown.
// CGST and SGST always come from the recomputed GST total, split evenly.
func Compute(items []LineItem) Totals {
	t := Totals{
		Lines:      make([]LineAmounts, len(items)),
		Subtotal:   decimal.Zero,
		GSTTotal:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}

	buckets := make(map[GSTRate]*TaxBucket)
	for i, item := range items {
		line := ComputeLine(item)
		t.Lines[i] = line
		t.Subtotal = t.Subtotal.Add(line.TaxableAmount)
		t.GSTTotal = t.GSTTotal.Add(line.GSTAmount)
		t.GrandTotal = t.GrandTotal.Add(line.LineTotal)
		t.TotalQuantity += max(item.Quantity, 0)

		b, ok := buckets[item.GSTPercent]
		if !ok {
			b = &TaxBucket{Rate: item.GSTPercent, TaxableAmount: decimal.Zero, Total: decimal.Zero}
			buckets[item.GSTPercent] = b
		}
		b.TaxableAmount = b.TaxableAmount.Add(line.TaxableAmount)
		b.Total = b.Total.Add(line.GSTAmount)
	}

	t.CGST = t.GSTTotal.Div(two)
	t.SGST = t.CGST

	t.Buckets = make([]TaxBucket, 0, len(buckets))
	for _, b := range buckets {
		b.CGST = b.Total.Div(two)
		b.SGST = b.CGST
		t.Buckets = append(t.Buckets, *b)
	}
	sort.Slice(t.Buckets, func(i, j int) bool {
		return t.Buckets[i].Rate < t.Buckets[j].Rate
	})

	return t
}

// TaxedBuckets returns only the buckets that carry GST
func (t Totals) TaxedBuckets() []TaxBucket {
	out := make([]TaxBucket, 0, len(t.Buckets))
	for _, b := range t.Buckets {
		if b.Rate > 0 {
			out = append(out, b)
		}
	}
	return out
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
