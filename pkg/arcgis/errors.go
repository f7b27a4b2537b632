package arcgis

import "fmt"

// StatusError reports a non-success HTTP status from the feature service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("arcgis: query returned status %d", e.StatusCode)
}

// ServiceError reports a structured error object embedded in an otherwise
// successful response body.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("arcgis: service error %d: %s", e.Code, e.Message)
}
