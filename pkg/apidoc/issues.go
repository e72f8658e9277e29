package apidoc

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue is a single schema violation with optional location metadata.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// PayloadError reports the schema violations of a request body.
type PayloadError struct {
	Issues []Issue
}

func (e *PayloadError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "apidoc: invalid payload"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "apidoc: invalid payload: " + strings.Join(parts, "; ")
}

// FieldMessages groups issue messages by field. Issues without a field are
// keyed under "form".
func (e *PayloadError) FieldMessages() map[string][]string {
	out := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		key := issue.Field
		if key == "" {
			key = "form"
		}
		out[key] = append(out[key], issue.Message)
	}
	return out
}

func issuesFromError(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]Issue, 0, len(multi))
		for _, item := range multi {
			out = append(out, issueFromError(item))
		}
		return out
	}
	return []Issue{issueFromError(err)}
}

func issueFromError(err error) Issue {
	if err == nil {
		return Issue{Message: "unknown error"}
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return Issue{
			Field:   fieldFromPointer(schemaErr.JSONPointer()),
			Message: strings.TrimSpace(schemaErr.Reason),
		}
	}
	return Issue{Message: strings.TrimSpace(err.Error())}
}

func fieldFromPointer(pointer []string) string {
	out := make([]string, 0, len(pointer))
	for _, segment := range pointer {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if strings.TrimSpace(segment) == "" {
			continue
		}
		out = append(out, segment)
	}
	return strings.Join(out, ".")
}
