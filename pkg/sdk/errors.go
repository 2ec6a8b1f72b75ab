package triagebot

import "fmt"

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("triagebot: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}
