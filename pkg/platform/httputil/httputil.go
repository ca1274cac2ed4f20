// Package httputil centralizes JSON encoding and domain error translation at
// the HTTP boundary so every handler responds with the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "certledger/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON envelope for every failed request.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// WriteError translates a domain error into its HTTP status and envelope.
// The error kind and caller-safe reason are surfaced verbatim.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorBody{
		Error:  string(code),
		Reason: dErrors.MessageOf(err),
	})
}

// Decode parses a JSON request body into T, rejecting unknown fields.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, dErrors.Wrap(err, dErrors.CodeInvalidArgument, "malformed request body")
	}
	return v, nil
}
