package logging

import (
	"net/http"
	"strings"
)

// sensitiveHeaderKeywords flags header names that carry credentials and
// should never reach the logs unredacted.
var sensitiveHeaderKeywords = []string{
	"authorization",
	"token",
	"key",
	"secret",
	"password",
	"credential",
	"api-key",
	"cookie",
}

// IsSensitiveHeader reports whether name looks like it carries a credential.
func IsSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range sensitiveHeaderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RedactHeaderValue masks value if name is sensitive, otherwise returns it
// unchanged.
func RedactHeaderValue(name, value string) string {
	if !IsSensitiveHeader(name) {
		return value
	}
	if strings.HasPrefix(value, "Bearer ") {
		return "Bearer ***"
	}
	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}
	return "***"
}

// RedactHeaders returns a map of header name to value with sensitive values
// masked, suitable for attaching to a log event.
func RedactHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		result[name] = RedactHeaderValue(name, values[0])
	}
	return result
}
