package relay

import (
	"encoding/json"
)

// PayloadFormat tags how a secret payload was interpreted.
type PayloadFormat int

const (
	// FormatPlain means the whole payload is the API key.
	FormatPlain PayloadFormat = iota
	// FormatStructured means the payload is a JSON object holding the key in a field.
	FormatStructured
)

func (f PayloadFormat) String() string {
	if f == FormatStructured {
		return "structured"
	}
	return "plain"
}

// apiKeyFields lists accepted field names in priority order.
var apiKeyFields = []string{"SENDGRID_API_KEY", "apiKey", "key"}

// SecretPayload is the parsed form of a raw secret: either Structured(Fields)
// or Plain(Raw). A structured payload that is not a JSON object has nil Fields.
type SecretPayload struct {
	Format PayloadFormat
	Fields map[string]any
	Raw    string
}

// ParseSecretPayload classifies raw. Any JSON value other than null is
// Structured, so a quoted string or a number carries no key. Everything else,
// null included, is Plain; that is a valid outcome, not an error.
func ParseSecretPayload(raw string) SecretPayload {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return SecretPayload{Format: FormatPlain, Raw: raw}
	}
	fields, _ := v.(map[string]any)
	return SecretPayload{Format: FormatStructured, Fields: fields, Raw: raw}
}

// APIKey extracts the credential. For structured payloads the first field in
// apiKeyFields holding a non-empty string wins; "" means none did.
func (p SecretPayload) APIKey() string {
	if p.Format == FormatPlain {
		return p.Raw
	}
	for _, name := range apiKeyFields {
		if v, ok := p.Fields[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// maskKey shortens a key for debug logs.
func maskKey(key string) string {
	if len(key) <= 6 {
		return "***"
	}
	return key[:6] + "..."
}
