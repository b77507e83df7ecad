package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError captures a non-2xx response from the backend API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Detail  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if msg := e.UserMessage(); msg != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// UserMessage returns the server-supplied human-readable message, if any.
// The backend uses either a `detail` or a `message` field.
func (e *APIError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// TransportError means no response was received at all (DNS failure,
// refused connection, reset). Distinct from a server-side failure.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return apiErr
	}
	apiErr.Detail = payload.Detail
	apiErr.Message = payload.Message
	apiErr.Code = payload.Code
	return apiErr
}
