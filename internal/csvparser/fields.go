package csvparser

import (
	"regexp"
	"strings"
)

type field int

const (
	fieldNone field = iota
	fieldEmail
	fieldName
	fieldCompany
)

var headerAliases = map[string]field{
	"email":         fieldEmail,
	"email address": fieldEmail,
	"mail":          fieldEmail,
	"name":          fieldName,
	"full name":     fieldName,
	"fullname":      fieldName,
	"company":       fieldCompany,
	"company name":  fieldCompany,
	"organization":  fieldCompany,
}

func classify(header string) field {
	return headerAliases[strings.ToLower(strings.TrimSpace(header))]
}

// Word characters include non-ASCII letters and digits, so josé@example.com passes.
var emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)

// ValidEmail applies the same loose check the console uses.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}
