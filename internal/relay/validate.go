// Package relay implements the forwarding core: target validation, header
// sanitization, and the outbound fetch/upload calls.
package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"forge-relay-go/internal/model"
)

// Sentinel errors for target validation, mapped to HTTP statuses at the
// handler boundary.
var (
	ErrMissingTarget    = errors.New("missing url query parameter")
	ErrInvalidTarget    = errors.New("url query parameter is not an absolute URL")
	ErrDisallowedTarget = errors.New("target host is not allowed")
)

// ParseTarget validates the raw url query parameter and returns a Target.
//
// A missing, relative, or unparsable value yields ErrMissingTarget or
// ErrInvalidTarget. A well-formed URL whose scheme is not http(s) or whose
// host does not match the allow-list yields ErrDisallowedTarget. No outbound
// call is ever made for a target that fails here.
func (s *Service) ParseTarget(raw string) (*model.Target, error) {
	if raw == "" {
		return nil, ErrMissingTarget
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return nil, ErrInvalidTarget
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return nil, ErrDisallowedTarget
	}

	if !s.hostAllowed(u.Hostname()) {
		return nil, ErrDisallowedTarget
	}

	return &model.Target{URL: u, Raw: raw}, nil
}

// hostAllowed reports whether host matches an allow-list entry exactly or as
// a subdomain. Matching is case-insensitive and anchored at a label boundary:
// "evil-amazonaws.com" does not match "amazonaws.com".
func (s *Service) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, suffix := range s.allowedHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// SanitizeHeaders parses the caller-supplied X-Extra-Headers JSON blob and
// returns the subset allowed to reach the target.
//
// The blob is optional caller metadata, so nothing here fails the request:
// an empty value, malformed JSON, a non-object value, or non-string entries
// all degrade to an empty (or smaller) header set. Retained keys are those
// whose lower-cased name is in the forwarding allow-list.
func (s *Service) SanitizeHeaders(blob string) http.Header {
	dst := make(http.Header)
	if blob == "" {
		return dst
	}

	var extra map[string]any
	if err := json.Unmarshal([]byte(blob), &extra); err != nil {
		return dst
	}

	for key, val := range extra {
		str, ok := val.(string)
		if !ok {
			continue
		}
		if s.forwardHeaders[strings.ToLower(key)] {
			dst.Set(key, str)
		}
	}
	return dst
}
