// Package types defines the JSON envelopes every API response uses. Success
// payloads ride under "data", failures under "error"; a response is never
// both.
package types

// SuccessEnvelope wraps a successful payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Code matches pkg/errors codes; Details
// is only populated for codes whose metadata allows it (validation field
// maps, dependency names).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failed response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
