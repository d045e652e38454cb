package talks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned when the talks API answers with a non-2xx status.
// Message carries the server-provided message of the error envelope, when
// there is one.
type APIError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "talks API error"
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// errorEnvelope is the body of a failed talks API response: {"message": "..."}.
type errorEnvelope struct {
	Message string `json:"message"`
}

// newAPIError builds the error for a failed response. The body is only
// inspected when the endpoint documents the error envelope.
func newAPIError(url string, statusCode int, body []byte, envelope bool) *APIError {
	apiErr := &APIError{URL: url, StatusCode: statusCode}
	if !envelope {
		return apiErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.Message
	}
	return apiErr
}
