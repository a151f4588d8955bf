package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerpilot-api/internal/logging"
	"careerpilot-api/internal/sweep"
	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

// SweepHandler is the scheduled-trigger endpoint. The external scheduler
// authenticates with a bearer secret; everything else is rejected before
// any work starts. A misconfigured empty secret fails closed.
func SweepHandler(sweeper *sweep.Sweeper, secret string) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if secret == "" || subtle.ConstantTimeCompare([]byte(auth), []byte("Bearer "+secret)) != 1 {
			logger.Warn("Rejected sweep trigger", map[string]interface{}{
				"remote_ip": c.RealIP(),
			})
			return respondError(c, "unauthorized", utils.NewUnauthorizedError("Invalid cron secret"))
		}

		result, err := sweeper.Run(c.Request().Context())
		if err != nil {
			logger.Error("Sweep run failed", map[string]interface{}{
				"error": err.Error(),
			})
			return respondError(c, "sweep_failed", utils.NewInternalServerError("Failed to run insight sweep"))
		}

		return c.JSON(http.StatusOK, models.SweepResponse{
			Success:   true,
			Total:     result.Total,
			Refreshed: result.Refreshed,
			Failed:    result.Failed,
			Timestamp: time.Now(),
		})
	}
}
