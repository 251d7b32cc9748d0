package handlers

import "net/http"

// Unauthorized writes the single response used for every authentication
// failure. Missing header, bad scheme, malformed token, and expired token
// are indistinguishable to the caller.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

// MethodNotAllowed rejects verbs an endpoint does not support.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
