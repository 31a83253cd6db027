package invoicing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "ZERO RUPEES ONLY"},
		{"one", "1", "ONE RUPEES ONLY"},
		{"teen", "19", "NINETEEN RUPEES ONLY"},
		{"round tens", "40", "FORTY RUPEES ONLY"},
		{"tens and ones", "99", "NINETY NINE RUPEES ONLY"},
		{"hundred and", "150", "ONE HUNDRED AND FIFTY RUPEES ONLY"},
		{"exact hundred", "700", "SEVEN HUNDRED RUPEES ONLY"},
		{"thousands", "2124", "TWO THOUSAND ONE HUNDRED AND TWENTY FOUR RUPEES ONLY"},
		{"one lakh", "100000", "ONE LAKH RUPEES ONLY"},
		{"lakhs", "913183", "NINE LAKH THIRTEEN THOUSAND ONE HUNDRED AND EIGHTY THREE RUPEES ONLY"},
		{"one crore", "10000000", "ONE CRORE RUPEES ONLY"},
		{"crore and lakh", "12345678", "ONE CRORE TWENTY THREE LAKH FORTY FIVE THOUSAND SIX HUNDRED AND SEVENTY EIGHT RUPEES ONLY"},
		{"beyond 99 crore", "1500000000", "ONE HUNDRED AND FIFTY CRORE RUPEES ONLY"},
		{"paise", "1234.50", "ONE THOUSAND TWO HUNDRED AND THIRTY FOUR RUPEES AND FIFTY PAISE ONLY"},
		{"paise only", "0.05", "ZERO RUPEES AND FIVE PAISE ONLY"},
		{"paise rounded", "10.456", "TEN RUPEES AND FORTY SIX PAISE ONLY"},
		{"paise carry into rupees", "99.999", "ONE HUNDRED RUPEES ONLY"},
		{"negative uses absolute value", "-150", "ONE HUNDRED AND FIFTY RUPEES ONLY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(d(tt.amount)))
		})
	}
}

func TestAmountInWords_WellFormed(t *testing.T) {
	amounts := []string{"0", "1", "10", "100", "101", "1000", "1001", "100000", "100001", "10000000", "10000001", "0.99", "2124.00"}
	for _, a := range amounts {
		got := AmountInWords(d(a))
		assert.NotContains(t, got, "  ", "double space for %s", a)
		assert.True(t, strings.HasSuffix(got, " ONLY"), "suffix for %s", a)
		assert.Equal(t, strings.ToUpper(got), got)
		assert.Equal(t, got, AmountInWords(d(a)), "stable output for %s", a)
	}
}
