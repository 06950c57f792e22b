package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"forge-relay-go/internal/client"
	"forge-relay-go/internal/config"
	"forge-relay-go/internal/model"
)

const userAgent = "forge-relay-go/1.0"

// Service validates forwarding targets and performs the outbound calls.
// The outbound method is fixed per operation (GET for fetch, PUT for upload)
// so the relay cannot be used as a method-agnostic open proxy.
type Service struct {
	client *client.UpstreamClient
	logger *slog.Logger

	allowedHosts   []string
	forwardHeaders map[string]bool
	echoMaxBytes   int64
}

// NewService creates a Service from the configured forwarding policy.
func NewService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) *Service {
	allowed := make([]string, 0, len(cfg.Relay.AllowedHosts))
	for _, h := range cfg.Relay.AllowedHosts {
		allowed = append(allowed, strings.ToLower(h))
	}

	forward := make(map[string]bool, len(cfg.Relay.ForwardHeaders))
	for _, h := range cfg.Relay.ForwardHeaders {
		forward[strings.ToLower(h)] = true
	}

	return &Service{
		client:         c,
		logger:         logger.With("component", "relay_service"),
		allowedHosts:   allowed,
		forwardHeaders: forward,
		echoMaxBytes:   cfg.Relay.EchoMaxBytes,
	}
}

// Fetch issues a GET to the target with the sanitized header set and returns
// the response with its body unread, so the caller can stream it. The caller
// is responsible for closing the body.
func (s *Service) Fetch(ctx context.Context, target *model.Target, header http.Header) (*model.RelayResponse, error) {
	s.logger.Debug("fetching target",
		"host", target.URL.Host,
	)

	resp, err := s.client.DoStream(ctx, http.MethodGet, target.URL.String(), s.outboundHeader(header), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target.URL.Host, err)
	}
	return resp, nil
}

// Upload issues a PUT of body to the target with the sanitized header set.
// The caller is responsible for closing the response body; upload responses
// are expected to be short diagnostics, not bulk data.
func (s *Service) Upload(ctx context.Context, target *model.Target, header http.Header, body []byte) (*model.RelayResponse, error) {
	s.logger.Debug("uploading to target",
		"host", target.URL.Host,
		"bytes", len(body),
	)

	resp, err := s.client.DoStream(ctx, http.MethodPut, target.URL.String(), s.outboundHeader(header), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", target.URL.Host, err)
	}
	return resp, nil
}

// ReadEcho reads body up to the configured echo cap and returns the bytes.
// Used for upload responses and fetch error bodies, which are echoed back to
// the caller as plain text.
func (s *Service) ReadEcho(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.echoMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return data, nil
}

func (s *Service) outboundHeader(header http.Header) http.Header {
	dst := make(http.Header, len(header)+1)
	for key, vals := range header {
		dst[http.CanonicalHeaderKey(key)] = vals
	}
	dst.Set("User-Agent", userAgent)
	return dst
}
