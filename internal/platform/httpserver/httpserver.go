// Package httpserver builds the shared HTTP server used by the gate scanner
// endpoints and the dashboard.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the given handler. Scan requests are tiny
// JSON bodies from handheld devices on venue wifi, so header reads get a
// short timeout; everything longer-lived goes through context deadlines.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
