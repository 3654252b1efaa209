package logging

import (
	"strings"
)

const redactedValue = "[REDACTED]"

// Redactor handles secret redaction in log fields.
type Redactor struct {
	sensitiveKeys map[string]bool
}

// NewRedactor creates a Redactor covering the secret material of an SRP
// exchange. Public values (A, B, username, group size) stay loggable; the
// private exponents, password-derived values, proofs and keys do not.
func NewRedactor() *Redactor {
	return &Redactor{
		sensitiveKeys: map[string]bool{
			"password": true,
			"secret":   true,
			"key":      true,

			// SRP protocol values
			"a":           true, // client ephemeral private exponent
			"b":           true, // server ephemeral private exponent
			"x":           true, // password-derived private key
			"verifier":    true,
			"salt":        true, // loggable in some contexts, redacted by default
			"proof":       true,
			"m":           true, // client proof
			"hamk":        true, // server proof
			"session_key": true,
		},
	}
}

// AddSensitiveKey adds a custom key to the redaction list.
func (r *Redactor) AddSensitiveKey(key string) {
	r.sensitiveKeys[strings.ToLower(key)] = true
}

// RedactFields redacts sensitive values from a map of fields.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	redacted := make(map[string]any, len(fields))
	for k, v := range fields {
		if r.isSensitiveKey(k) {
			redacted[k] = redactedValue
		} else if nested, ok := v.(map[string]any); ok {
			redacted[k] = r.RedactFields(nested)
		} else {
			redacted[k] = v
		}
	}
	return redacted
}

// isSensitiveKey checks if a field key is marked as sensitive.
// Exact match only; substring matching catches legitimate fields.
func (r *Redactor) isSensitiveKey(key string) bool {
	return r.sensitiveKeys[strings.ToLower(key)]
}
