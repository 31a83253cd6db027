// Package servicedesk holds the customer and complaint records the invoice
// core reads from the shop's record store, along with the input rules
// checked before anything is forwarded there.
package servicedesk

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vikalp/backend/internal/domain/shared"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// Customer is a shop customer. It is owned by the record store.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

// IsValidMobile reports whether s is exactly ten digits
func IsValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// NormalizeMobile strips separators and an Indian country or trunk prefix
func NormalizeMobile(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, s)
	switch {
	case strings.HasPrefix(s, "+91") && len(s) == 13:
		s = s[3:]
	case strings.HasPrefix(s, "91") && len(s) == 12:
		s = s[2:]
	case strings.HasPrefix(s, "0") && len(s) == 11:
		s = s[1:]
	}
	return s
}

// Validate checks a customer before it is created or updated
func (c *Customer) Validate() error {
	var errs shared.ValidationErrors
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < 3 {
		errs.Add("name", "Full name must be at least 3 characters")
	}
	if !IsValidMobile(c.Mobile) {
		errs.Add("mobile", "Mobile number must be exactly 10 digits")
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Address)) < 5 {
		errs.Add("address", "Address must be at least 5 characters")
	}
	return errs.OrNil()
}
