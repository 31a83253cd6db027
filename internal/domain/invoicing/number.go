package invoicing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceNumberPrefix is the shop prefix for generated invoice numbers
const InvoiceNumberPrefix = "VE"

// FiscalYear returns the Indian financial year label (April to March) for t, e.g. "2025-26"
func FiscalYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// GenerateInvoiceNumber builds a shop-assigned number such as "VE/2025-26/0007"
func GenerateInvoiceNumber(now time.Time, seq int) string {
	return fmt.Sprintf("%s/%s/%04d", InvoiceNumberPrefix, FiscalYear(now), seq)
}

// NextInvoiceSequence returns the sequence that follows the highest shop-assigned
// number of now's fiscal year among existing. Numbers from other years, or
// entered by hand in another format, are ignored, so the first invoice of a
// year gets 1.
func NextInvoiceSequence(now time.Time, existing []string) int {
	prefix := InvoiceNumberPrefix + "/" + FiscalYear(now) + "/"
	highest := 0
	for _, number := range existing {
		rest, ok := strings.CutPrefix(strings.TrimSpace(number), prefix)
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(rest)
		if err != nil || seq <= 0 {
			continue
		}
		highest = max(highest, seq)
	}
	return highest + 1
}
