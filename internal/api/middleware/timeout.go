package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig bounds request handling. The limit is derived from the
// insight transaction budget rather than a fixed constant, since profile
// updates can block on a cold-industry generation.
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: `{"error":"timeout","message":"Request exceeded its processing budget"}`,
	})
}
