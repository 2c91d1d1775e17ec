package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable wraps failures where no response was received.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoOpener is returned by DownloadReadme when no Opener is configured.
	ErrNoOpener = errors.New("no download opener configured")
	// ErrMissingToken is returned when a successful login carries no token.
	ErrMissingToken = errors.New("login response has no access_token")
)

// Error is a non-2xx backend response, kept as received.
type Error struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	// Detail is the backend's "detail" message, when it sent one.
	Detail string
	Body   []byte
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Kind classifies the failure: "auth", "client" (other 4xx) or "server" (5xx).
func (e *Error) Kind() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return "auth"
	case e.StatusCode >= 500:
		return "server"
	default:
		return "client"
	}
}

// Message returns the backend-provided detail of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// StatusCode returns the HTTP status behind err, or 0 if there is none.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseDetail understands {"detail": "msg"} and the validation form
// {"detail": [{"msg": "..."}, ...]}.
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
