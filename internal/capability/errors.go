package capability

import "net/http"

// Code identifies a failure class in the response envelope.
type Code string

const (
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeGeocodeFail         Code = "GEOCODE_FAIL"
	CodeAdapterMissing      Code = "ADAPTER_MISSING"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamError       Code = "UPSTREAM_ERROR"
	CodeUnexpected          Code = "UNEXPECTED"
)

// HTTPStatus returns the HTTP status associated with the code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeGeocodeFail:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is a failure surfaced to the client in the error envelope.
type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newAPIError(code Code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}
