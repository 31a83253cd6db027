package invoicing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RupeeSymbol prefixes amounts on printed invoices
const RupeeSymbol = "₹"

// FormatINR formats an amount with two decimals and Indian digit grouping,
// e.g. 1234567.8 -> "12,34,567.80".
func FormatINR(amount decimal.Decimal) string {
	s := amount.Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupIndian(intPart) + "." + frac
}

// FormatRupee formats an amount with the rupee symbol, e.g. "₹ 2,124.00"
func FormatRupee(amount decimal.Decimal) string {
	return RupeeSymbol + " " + FormatINR(amount)
}

// groupIndian inserts separators after the last three digits, then every two
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// FormatPercent renders a percentage without trailing zeros, e.g. 9 -> "9%", 2.5 -> "2.5%"
func FormatPercent(p decimal.Decimal) string {
	return p.String() + "%"
}
