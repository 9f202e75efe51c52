package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Segments are unpadded base64url. Strict decoding rejects non-zero trailing
// bits, so every token has exactly one textual form.
var segmentEncoding = base64.RawURLEncoding.Strict()

const separator = "."

// marshalPayload returns the canonical serialization that gets signed:
// compact JSON, declared field order, no HTML escaping.
func marshalPayload(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("session: can't encode payload, %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// unmarshalPayload accepts only objects with a string "u" and an integer
// "t" that fits in int64.
func unmarshalPayload(data []byte) (Payload, error) {
	var raw struct {
		U *string          `json:"u"`
		T *json.RawMessage `json:"t"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Payload{}, fmt.Errorf("session: payload is not valid JSON, %w", err)
	}
	if raw.U == nil || raw.T == nil {
		return Payload{}, fmt.Errorf("session: payload misses required fields")
	}
	// ParseInt rejects strings, fractions, exponents and out of range values.
	t, err := strconv.ParseInt(string(*raw.T), 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("session: timestamp is not an integer, %w", err)
	}
	return Payload{Subject: *raw.U, LastActivity: t}, nil
}

func encodeSegment(b []byte) string {
	return segmentEncoding.EncodeToString(b)
}

func decodeSegment(s string) ([]byte, error) {
	return segmentEncoding.DecodeString(s)
}

// splitToken cuts the token at the first separator.
func splitToken(token string) (data, sig string, err error) {
	data, sig, found := strings.Cut(token, separator)
	if !found {
		return "", "", fmt.Errorf("session: token has no separator")
	}
	return data, sig, nil
}

func joinToken(data []byte, sig string) string {
	return encodeSegment(data) + separator + sig
}
