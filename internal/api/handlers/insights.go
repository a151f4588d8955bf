package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"careerpilot-api/internal/insights"
	"careerpilot-api/pkg/utils"
)

// GetInsightHandler returns the stored insight for the caller's
// industry, generating one on first demand. Callers who have not picked
// an industry get a 400 pointing them at onboarding.
func GetInsightHandler(svc *insights.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		authID, email, name, err := callerIdentity(c)
		if err != nil {
			return respondError(c, "unauthorized", utils.NewUnauthorizedError("Missing caller identity"))
		}
		ctx := c.Request().Context()

		if _, err := svc.EnsureUser(ctx, authID, email, name); err != nil {
			return respondError(c, "internal_error", utils.NewInternalServerError("Failed to load user"))
		}

		user, insight, err := svc.GetInsightForUser(ctx, authID)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrGenerationFailed), errors.Is(err, utils.ErrMalformedResponse):
				return respondError(c, "insight_generation_failed", utils.NewLLMError("Could not generate insights for this industry"))
			case errors.Is(err, utils.ErrUserNotFound):
				return respondError(c, "user_not_found", utils.NewNotFoundError("User not found"))
			default:
				return respondError(c, "internal_error", utils.NewInternalServerError("Failed to load insight"))
			}
		}

		if !user.IsOnboarded() {
			return respondError(c, "not_onboarded", utils.NewBadRequestError("Select an industry before requesting insights"))
		}

		return c.JSON(http.StatusOK, insight)
	}
}
