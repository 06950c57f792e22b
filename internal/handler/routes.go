package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// Unknown paths 404 and non-POST methods on the relay routes 405 via the
// router; OPTIONS is short-circuited earlier by the CORS middleware.
func RegisterRoutes(e *echo.Echo, relay *RelayHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/relay/status", health.Status)

	e.POST("/fetch", relay.Fetch)
	e.POST("/upload", relay.Upload)
}
