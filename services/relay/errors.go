package relay

// Every error below reports the message of whatever caused it, so the text
// placed in the HTTP 500 body is the underlying description unchanged.

// ConfigurationError covers a missing secret reference, a missing or empty
// secret, and a secret that holds no usable API key.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "configuration error"
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RequestParseError is returned when the inbound body is not a valid EmailRequest.
type RequestParseError struct {
	Err error
}

func (e *RequestParseError) Error() string {
	return "invalid request body: " + e.Err.Error()
}

func (e *RequestParseError) Unwrap() error { return e.Err }

// ProviderError wraps a failure reported by the email provider.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }
