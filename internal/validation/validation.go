// Package validation holds the pure input checks applied before any
// registration or event write reaches the database.
package validation

import (
	"net/mail"
	"regexp"
	"strings"
)

// datePattern accepts YYYY-MM-DD by shape only. Calendar-invalid values
// such as 2024-13-40 pass on purpose; see DESIGN.md.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Sanitize trims whitespace and escapes markup-significant characters so
// stored free text cannot inject HTML when echoed back.
func Sanitize(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}

// MissingFields returns every required key whose value is absent or blank
// after trimming.
func MissingFields(fields map[string]string, required []string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func ValidAge(n int) bool {
	return n >= 16 && n <= 30
}

func ValidGender(s string) bool {
	switch s {
	case "male", "female", "other":
		return true
	}
	return false
}
