package authapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// APIError is a non-2xx response (or an unusable 2xx body) from the identity API.
// Message is the human-readable text found in the payload, if any.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "api error: " + e.Message
	}
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// UserMessage returns the payload message for display.
func (e *APIError) UserMessage() string { return e.Message }

// Unwrap maps the status onto the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case e.Status >= 500:
		return domain.ErrUnavailable
	}
	return nil
}

// IsUnauthorized reports whether err is an authorization rejection.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// errorPayload covers the error shapes the API returns:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"message": "..."}, {"error": "..."}.
type errorPayload struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type detailItem struct {
	Msg string `json:"msg"`
}

// extractMessage pulls the most specific human-readable message out of a
// failure body. Returns "" when the body has none.
func extractMessage(body []byte) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}

	if len(p.Detail) > 0 {
		var s string
		if err := json.Unmarshal(p.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var items []detailItem
		if err := json.Unmarshal(p.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if m := strings.TrimSpace(it.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if m := strings.TrimSpace(p.Message); m != "" {
		return m
	}
	return strings.TrimSpace(p.Error)
}
