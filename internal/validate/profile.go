package validate

import "strings"

const (
	maxNameLen    = 100
	maxCompanyLen = 200
	maxPhoneLen   = 30
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ProfileFields checks the shape of profile fields. Nil pointers mean the
// field is absent and is not validated.
func ProfileFields(firstName, lastName, company, phone *string) []FieldError {
	var errs []FieldError
	if firstName != nil {
		if issue := nameIssue(*firstName, maxNameLen); issue != "" {
			errs = append(errs, FieldError{Field: "firstName", Issue: issue})
		}
	}
	if lastName != nil {
		if issue := nameIssue(*lastName, maxNameLen); issue != "" {
			errs = append(errs, FieldError{Field: "lastName", Issue: issue})
		}
	}
	if company != nil {
		if issue := textIssue(*company, maxCompanyLen); issue != "" {
			errs = append(errs, FieldError{Field: "company", Issue: issue})
		}
	}
	if phone != nil {
		if issue := phoneIssue(*phone); issue != "" {
			errs = append(errs, FieldError{Field: "phone", Issue: issue})
		}
	}
	return errs
}

func nameIssue(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "required"
	}
	return textIssue(s, max)
}

func textIssue(s string, max int) string {
	if len(s) > max {
		return "too long"
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return "contains control characters"
		}
	}
	return ""
}

func phoneIssue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > maxPhoneLen {
		return "too long"
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
		default:
			return "contains invalid characters"
		}
	}
	return ""
}
