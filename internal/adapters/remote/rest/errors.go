package rest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evanschultz/todomirror/internal/app"
)

// maxExcerpt bounds the response body kept on a StatusError.
const maxExcerpt = 200

// StatusError reports a non-2xx response from the remote collection.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

// Error implements error.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap classifies every status error as a remote rejection.
func (e *StatusError) Unwrap() error {
	return app.ErrRemoteRejected
}

// detailFromBody extracts the FastAPI "detail" message, falling back to a trimmed excerpt.
func detailFromBody(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return excerpt(text)
		}
		// Validation errors carry a list of objects.
		return excerpt(string(payload.Detail))
	}
	return excerpt(string(body))
}

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxExcerpt {
		return text
	}
	return string(runes[:maxExcerpt]) + "..."
}
