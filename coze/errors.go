package coze

import "fmt"

// APIError is a request the API refused: a non-success status, or a success
// status carrying a JSON error body instead of an event stream.
type APIError struct {
	StatusCode int
	Code       int    // API error code, 0 when the body had none
	Message    string // best-effort explanation from the body
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("coze: HTTP %d: code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("coze: HTTP %d: %s", e.StatusCode, e.Message)
}
