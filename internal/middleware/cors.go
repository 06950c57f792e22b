package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS returns an Echo middleware implementing the relay's cross-origin
// contract: every response carries a permissive Access-Control-Allow-Origin,
// and any OPTIONS request — on any path, with or without an Origin header —
// is answered immediately with 204 and the fixed preflight headers, before
// routing or validation.
//
// Echo's built-in CORS middleware is not used here because it only answers
// preflights that carry an Origin header; browsers talking to the relay
// require an unconditional 204.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")

			if c.Request().Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlAllowMethods, "POST,OPTIONS")
				h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type, X-Extra-Headers")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
