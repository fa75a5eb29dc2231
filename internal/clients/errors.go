package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx backend response. Message comes from the body's
// "message" (or "error") field when present.
type APIError struct {
	Client  string
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s %s: %d %s", e.Client, e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s %s: %d", e.Client, e.Method, e.Path, e.Status)
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// UserMessage is the server text meant for display, if any.
func (e *APIError) UserMessage() string {
	return e.Message
}

func newAPIError(client, method, path string, resp *http.Response) *APIError {
	e := &APIError{Client: client, Method: method, Path: path, Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
	}
	return e
}
