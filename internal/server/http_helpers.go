package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"poker-front/internal/live"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// pageLocation is the origin the browser used to reach this page, honouring
// a TLS-terminating proxy.
func pageLocation(r *http.Request) live.Location {
	protocol := "http:"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		protocol = "https:"
	}
	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}
	return live.Location{Protocol: protocol, Host: host}
}
