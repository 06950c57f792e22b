// Package model defines shared types for the relay.
package model

import (
	"io"
	"net/http"
	"net/url"
)

// Target is a validated forwarding destination derived from the caller's
// url query parameter.
type Target struct {
	URL *url.URL
	// Raw is the original string from the query parameter, kept for logging.
	Raw string
}

// RelayResponse represents the upstream response handed back to the caller.
type RelayResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
