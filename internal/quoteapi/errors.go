package quoteapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrMissingQuote indicates a 2xx response without a quote field.
var ErrMissingQuote = errors.New("quoteapi: response has no quote")

// APIError captures non-2xx responses.
type APIError struct {
	StatusCode int
	// Message comes from the body's detail or error field, or the raw body.
	Message string
	RawBody []byte
}

func (e *APIError) Error() string {
	b := strings.Builder{}
	b.WriteString("quoteapi: API error (status=")
	b.WriteString(strconv.Itoa(e.StatusCode))
	b.WriteString(")")
	if m := strings.TrimSpace(e.Message); m != "" {
		b.WriteString(": ")
		b.WriteString(m)
	}
	return b.String()
}

// IsUnavailable reports whether err is a 5xx APIError.
func IsUnavailable(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode >= http.StatusInternalServerError
	}
	return false
}

func buildAPIError(status int, body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	ae := &APIError{StatusCode: status, RawBody: body, Message: trimmed}
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Detail json.RawMessage `json:"detail"`
			Error  string          `json:"error"`
		}
		if err := json.Unmarshal(body, &obj); err == nil {
			if msg := detailMessage(obj.Detail); msg != "" {
				ae.Message = msg
			} else if obj.Error != "" {
				ae.Message = obj.Error
			}
		}
	}
	return ae
}

// detailMessage extracts a string detail; structured validation details keep the raw body.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}
