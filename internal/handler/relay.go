package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"forge-relay-go/internal/relay"
)

// HeaderExtraHeaders carries the caller-supplied JSON blob of headers to
// forward upstream.
const HeaderExtraHeaders = "X-Extra-Headers"

const plainTextUTF8 = "text/plain; charset=utf-8"

// passthroughResponseHeaders are the upstream response headers copied as-is
// into a streamed fetch response.
var passthroughResponseHeaders = []string{
	"Content-Type",
	"Content-Length",
}

// RelayHandler serves the /fetch and /upload operations.
type RelayHandler struct {
	service *relay.Service
	logger  *slog.Logger
}

// NewRelayHandler creates a RelayHandler.
func NewRelayHandler(svc *relay.Service, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service: svc,
		logger:  logger.With("component", "relay_handler"),
	}
}

// Fetch issues an outbound GET to the target and streams the upstream body
// back. A 2xx upstream body is piped through without buffering; a non-2xx
// upstream body is echoed back truncated, as plain-text diagnostics, under
// the upstream's status code.
func (h *RelayHandler) Fetch(c echo.Context) error {
	req := c.Request()

	target, err := h.service.ParseTarget(c.QueryParam("url"))
	if err != nil {
		return h.mapTargetError(c, "fetch", err)
	}
	header := h.service.SanitizeHeaders(req.Header.Get(HeaderExtraHeaders))

	resp, err := h.service.Fetch(req.Context(), target, header)
	if err != nil {
		return h.fail(c, "fetch", target.Raw, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, err := h.service.ReadEcho(resp.Body)
		if err != nil {
			return h.fail(c, "fetch", target.Raw, err)
		}
		h.logger.Info("fetch",
			"status", resp.StatusCode,
			"target", target.Raw,
		)
		return c.Blob(resp.StatusCode, plainTextUTF8, data)
	}

	for _, key := range passthroughResponseHeaders {
		if v := resp.Header.Get(key); v != "" {
			c.Response().Header().Set(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	// Stream the upstream body directly to the client. If io.Copy fails
	// mid-stream (e.g. client disconnect, network error), the HTTP status
	// code has already been sent, so the client receives a truncated
	// response with the original status. This is an inherent trade-off of
	// streaming proxies — we log the error for observability.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"target", target.Raw,
		)
		return nil
	}

	h.logger.Info("fetch",
		"status", resp.StatusCode,
		"target", target.Raw,
	)
	return nil
}

// Upload buffers the inbound body, issues an outbound PUT to the target, and
// echoes the upstream response back truncated as plain text. Success and
// failure take the same path; the distinction is the mirrored status code.
func (h *RelayHandler) Upload(c echo.Context) error {
	req := c.Request()

	target, err := h.service.ParseTarget(c.QueryParam("url"))
	if err != nil {
		return h.mapTargetError(c, "upload", err)
	}
	header := h.service.SanitizeHeaders(req.Header.Get(HeaderExtraHeaders))

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return h.fail(c, "upload", target.Raw, err)
	}

	resp, err := h.service.Upload(req.Context(), target, header, body)
	if err != nil {
		return h.fail(c, "upload", target.Raw, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := h.service.ReadEcho(resp.Body)
	if err != nil {
		return h.fail(c, "upload", target.Raw, err)
	}

	h.logger.Info("upload",
		"status", resp.StatusCode,
		"target", target.Raw,
		"bytes", len(body),
	)
	return c.Blob(resp.StatusCode, plainTextUTF8, data)
}

// mapTargetError converts validation errors into client-error responses.
// These are caller mistakes, not relay failures, so they are not logged as
// server errors.
func (h *RelayHandler) mapTargetError(c echo.Context, op string, err error) error {
	h.logger.Debug("rejected target",
		"op", op,
		"err", err,
	)

	switch {
	case errors.Is(err, relay.ErrMissingTarget), errors.Is(err, relay.ErrInvalidTarget):
		return c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, relay.ErrDisallowedTarget):
		return c.String(http.StatusForbidden, "target host is not allowed")
	default:
		return c.String(http.StatusBadRequest, err.Error())
	}
}

// fail reports a transport, timeout, or body-read failure. The caller always
// gets a response with the underlying error text; nothing is left hanging.
func (h *RelayHandler) fail(c echo.Context, op, target string, err error) error {
	h.logger.Error("relay error",
		"op", op,
		"target", target,
		"err", err,
	)
	return c.String(http.StatusInternalServerError, err.Error())
}
