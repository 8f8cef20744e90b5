// Package service implements the HTTP services: auth, friends, groups, and
// the group contribution ledger (deposit initiation, webhook reconciliation,
// aggregation).
//
// Each service is a struct holding its injected dependencies (store, auth,
// payment clients) and exposing http.HandlerFunc methods that are wired to
// routes in cmd/server. Services validate input before any external call,
// map domain errors to HTTP statuses at this edge, and never leak internal
// error details in 5xx bodies.
package service

import (
	"encoding/json"
	"errors"
	"net/http"
)

var errBadJSON = errors.New("invalid request body")

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body: {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadJSON
	}
	return nil
}
