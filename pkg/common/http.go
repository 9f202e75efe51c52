package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/etc-team/bestellung/pkg/logger"
)

// Request bodies larger than this are rejected before decoding.
const maxBodyBytes = 1 << 20

// ParseReqBody decodes a JSON request body into v.
func ParseReqBody(body io.ReadCloser, v any) error {
	defer body.Close()
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("common: can't decode request body, %w", err)
	}
	return nil
}

// WriteRespJSON writes v as a JSON response with the given status. Write
// failures go to the request's logger.
func WriteRespJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log(r.Context()).Errorf("common: can't write response, %v", err)
	}
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, msg string, status int) {
	WriteRespJSON(w, r, status, struct {
		Error string `json:"error"`
	}{msg})
}
