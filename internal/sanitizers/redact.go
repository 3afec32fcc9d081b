package sanitizers

import (
	"regexp"
)

// Redaction patterns for PII embedded in free-form string attributes. Matches
// are replaced with a fixed placeholder token, never removed wholesale, so the
// surrounding context stays usable for debugging.
var redactions = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[email]"},
	{regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`), "[phone]"},
	{regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`), "[credit_card]"},
	{regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`), "[ssn]"},
	{regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`), "[ip]"},
	{regexp.MustCompile(`\b(?:[0-9a-fA-F]{1,4}:){2,7}[0-9a-fA-F]{1,4}\b`), "[ip]"},
}

// redactString replaces embedded emails, phone numbers, credit-card-like digit
// runs, SSN-like patterns and raw IP literals with placeholder tokens.
func redactString(s string) string {
	for _, r := range redactions {
		s = r.pattern.ReplaceAllString(s, r.placeholder)
	}
	return s
}
