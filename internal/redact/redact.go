// Package redact scrubs credentials from strings before they reach the
// logs or the outcome ledger. Error text from HTTP clients can embed
// request URLs and header values; redaction keeps provider API keys,
// the downstream service token, and database passwords out of
// persisted records.
package redact

import "regexp"

// Redaction placeholders
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
)

var (
	// user:password@ segments in connection URLs.
	connCredentialsRegex = regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql)://[^@/\s]+@`)

	// Authorization header values of the schemes this system sends.
	authHeaderRegex = regexp.MustCompile(`(?i)\b(Bearer|Token)[ :]+[A-Za-z0-9_\-.~+/=]{8,}`)

	// key=value style secrets in query strings or echoed payloads.
	secretParamRegex = regexp.MustCompile(`(?i)\b(api[_-]?key|apikey|token|secret|password|passwd)(['"\s:=]+)[^'"&\s]{6,}`)
)

// String redacts credential material from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := connCredentialsRegex.ReplaceAllString(input, "$1://"+CredentialPlaceholder+"@")
	result = authHeaderRegex.ReplaceAllString(result, "$1 "+KeyPlaceholder)
	result = secretParamRegex.ReplaceAllString(result, "$1$2"+KeyPlaceholder)
	return result
}

// Error redacts credential material from an error's Error() output.
// A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
