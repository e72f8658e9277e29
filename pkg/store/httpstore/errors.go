package httpstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusError reports a non-2xx backend response. Fields carries the field
// error map of 422 responses shaped as {"errors": {"email": ["..."]}}.
type StatusError struct {
	Code   int
	Fields map[string][]string
	Form   []string
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("httpstore: backend returned %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("httpstore: backend returned %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusCode reports the HTTP status.
func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorBody struct {
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
}

func newStatusError(code int, data []byte) *StatusError {
	err := &StatusError{Code: code}
	var body errorBody
	if json.Unmarshal(data, &body) != nil {
		return err
	}
	if len(body.Errors) > 0 {
		err.Fields = body.Errors
	}
	for _, msg := range []string{body.Message, body.Error} {
		if trimmed := strings.TrimSpace(msg); trimmed != "" {
			err.Form = append(err.Form, trimmed)
		}
	}
	return err
}
