package model

import (
	"strings"
	"time"
	"unicode"
)

// Contact is a registered customer, upserted by email. Independent of the
// order lifecycle: a failed contact write never blocks payment.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CareTicket is a customer-care request linked to a contact.
type CareTicket struct {
	ID         string
	ContactID  string
	Subject    string
	Message    string
	TemplateID string
	CreatedAt  time.Time
}

// NormalizePhone converts common Nigerian number formats to E.164.
// Returns "" when the input cannot be normalized.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	hasPlus := strings.HasPrefix(raw, "+")
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case hasPlus && len(d) >= 8 && len(d) <= 15:
		return "+" + d
	case len(d) == 11 && strings.HasPrefix(d, "0"):
		// Local format like 08012345678.
		return "+234" + d[1:]
	case len(d) >= 10 && strings.HasPrefix(d, "234"):
		return "+" + d
	}
	return ""
}
