package handlers

import (
	"net/http"

	"github.com/upb/log-ingest/utils"
)

// NotFound returns a JSON 404 for unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w, "Route not found")
}

// MethodNotAllowed returns a JSON 405 for known routes with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}
