package invoicing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = [...]string{
	"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tensWords = [...]string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

const (
	thousand = 1_000
	lakh     = 1_00_000
	crore    = 1_00_00_000
)

// AmountInWords spells a rupee amount in the Indian numbering system,
// e.g. 1234.50 -> "ONE THOUSAND TWO HUNDRED AND THIRTY FOUR RUPEES AND FIFTY PAISE ONLY".
// The sign is dropped. Paise are rounded to two digits and omitted when zero.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(hundred).Round(0).IntPart()

	parts := []string{spell(rupees), "RUPEES"}
	if paise > 0 {
		parts = append(parts, "AND", spell(paise), "PAISE")
	}
	parts = append(parts, "ONLY")
	return strings.Join(parts, " ")
}

// spell returns the words for n; zero spells "ZERO" only at the top level
func spell(n int64) string {
	if n == 0 {
		return onesWords[0]
	}
	return strings.Join(words(n), " ")
}

func words(n int64) []string {
	switch {
	case n == 0:
		return nil
	case n < 20:
		return []string{onesWords[n]}
	case n < 100:
		out := []string{tensWords[n/10]}
		if n%10 != 0 {
			out = append(out, onesWords[n%10])
		}
		return out
	case n < thousand:
		out := []string{onesWords[n/100], "HUNDRED"}
		if rest := n % 100; rest != 0 {
			out = append(out, "AND")
			out = append(out, words(rest)...)
		}
		return out
	case n < lakh:
		return group(n, thousand, "THOUSAND")
	case n < crore:
		return group(n, lakh, "LAKH")
	default:
		return group(n, crore, "CRORE")
	}
}

func group(n, unit int64, label string) []string {
	out := append(words(n/unit), label)
	return append(out, words(n%unit)...)
}
