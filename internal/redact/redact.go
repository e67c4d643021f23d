// Package redact strips sensitive fragments from strings before they reach
// logs or error responses: connection strings, credentials, file paths, SQL
// text, and host names.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

// rule pairs a pattern with its replacement text. Rules are applied in order.
type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// Database connection strings with embedded credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`), RedactedCredentialPlaceholder},

	// Password-like key/value fragments
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},

	// API keys, tokens, and secrets
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},

	// File system paths
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), RedactedPathPlaceholder},

	// SQL statements leaked from driver errors
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|DATABASE)(?:[\s\w,*()='"]+)?`), "[REDACTED_SQL]"},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), "[REDACTED_EMAIL]"},

	// host:port pairs
	{regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`), "[REDACTED_HOST]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
