package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerpilot-api/internal/llm"
	"careerpilot-api/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the service can take traffic
func ReadinessHandler(llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api": "ok",
		}

		status := "ready"
		if llmManager != nil {
			if llmManager.IsHealthy() {
				checks["llm"] = "ok"
			} else {
				checks["llm"] = "unavailable"
				status = "degraded"
			}
		}

		response := models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		}

		return c.JSON(http.StatusOK, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}
