package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the calculator API.
type APIError struct {
	Detail     string
	StatusCode int
	// Decodable is false when the error body was not JSON at all.
	Decodable bool
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("calculator API returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("calculator API returned %d", e.StatusCode)
}

func newAPIError(status int, body []byte) *APIError {
	detail, ok := ParseDetail(body)
	return &APIError{StatusCode: status, Detail: detail, Decodable: ok}
}

// ParseDetail extracts the human message from an error body. The backend sends
// either {"detail": "text"} or {"detail": [{"msg": "..."}, ...]}; list entries
// are joined with ", ". The boolean is false when body is not a JSON object.
func ParseDetail(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", false
	}

	raw := envelope.Detail
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", true
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, detailItem(item))
	}
	return strings.Join(parts, ", "), true
}

func detailItem(item json.RawMessage) string {
	var entry struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(item, &entry); err == nil && entry.Msg != "" {
		return entry.Msg
	}

	var text string
	if err := json.Unmarshal(item, &text); err == nil {
		return text
	}

	return string(item)
}
