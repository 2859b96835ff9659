package validation

import (
	"regexp"
	"strings"

	"apexhire/internal/model"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
)

// Field names a candidate detail that can be flagged for correction
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// AllFields is the canonical correction order
var AllFields = []Field{FieldName, FieldEmail, FieldPhone}

// Result reports which candidate details failed validation. FieldsToCorrect
// is always ordered name, email, phone.
type Result struct {
	IsValid         bool    `json:"isValid"`
	FieldsToCorrect []Field `json:"fieldsToCorrect"`
}

// ValidateDetails checks every field independently; it never short-circuits.
func ValidateDetails(d model.CandidateDetails) Result {
	var fields []Field
	if !nameValid(d.Name) {
		fields = append(fields, FieldName)
	}
	if !emailValid(d.Email) {
		fields = append(fields, FieldEmail)
	}
	if !phoneValid(d.Phone) {
		fields = append(fields, FieldPhone)
	}
	return Result{
		IsValid:         len(fields) == 0,
		FieldsToCorrect: fields,
	}
}

// ValidateCorrection checks a single submitted correction against the rule
// for the given field and returns the value to store when it passes. Phone
// numbers are normalized to their last ten digits.
func ValidateCorrection(field Field, answer string) (string, bool) {
	switch field {
	case FieldName:
		if len(answer) > 2 {
			return answer, true
		}
	case FieldEmail:
		if emailRegex.MatchString(answer) {
			return answer, true
		}
	case FieldPhone:
		sanitized := lastTen(SanitizePhone(answer))
		if phoneRegex.MatchString(sanitized) {
			return sanitized, true
		}
	}
	return "", false
}

// SanitizePhone strips whitespace and the separator characters ()-+ from a
// phone number. It is idempotent: sanitizing twice equals sanitizing once.
func SanitizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '(', ')', '+':
			return -1
		}
		return r
	}, s)
}

func nameValid(name *string) bool {
	return name != nil && *name != ""
}

func emailValid(email *string) bool {
	return email != nil && emailRegex.MatchString(*email)
}

func phoneValid(phone *string) bool {
	raw := ""
	if phone != nil {
		raw = *phone
	}
	return phoneRegex.MatchString(lastTen(SanitizePhone(raw)))
}

func lastTen(s string) string {
	if len(s) > 10 {
		return s[len(s)-10:]
	}
	return s
}
