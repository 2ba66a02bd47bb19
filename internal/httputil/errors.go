// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"encoding/json"
	"io"
	"strings"
)

// MaxErrorBody caps how much of a failed response is read for decoding.
const MaxErrorBody = 64 << 10

// errorBody covers the shapes conversion services use for failures:
// {"error": "..."}, FastAPI's {"detail": "..."} and {"message": "..."}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
}

// ReadErrorMessage reads at most MaxErrorBody bytes from r and extracts the
// server-supplied error text. It reports false when the body is not JSON or
// carries no usable text; it never returns a decode error.
func ReadErrorMessage(r io.Reader) (string, bool) {
	data, err := io.ReadAll(io.LimitReader(r, MaxErrorBody))
	if err != nil && len(data) == 0 {
		return "", false
	}
	return DecodeErrorMessage(data)
}

// DecodeErrorMessage extracts the error text from a structured error body.
func DecodeErrorMessage(data []byte) (string, bool) {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return "", false
	}
	for _, raw := range []json.RawMessage{body.Error, body.Detail, body.Message} {
		if msg, ok := rawString(raw); ok {
			return msg, true
		}
	}
	return "", false
}

// rawString returns raw as a trimmed string when it is a non-empty JSON string.
func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
