package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"careerpilot-api/internal/insights"
	"careerpilot-api/internal/logging"
	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

var validate = validator.New()

// UpdateProfileHandler updates the caller's profile. Picking an industry
// for the first time generates its insight inside the same transaction,
// so the request can take a few seconds on a cold industry.
func UpdateProfileHandler(svc *insights.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		authID, email, name, err := callerIdentity(c)
		if err != nil {
			return respondError(c, "unauthorized", utils.NewUnauthorizedError("Missing caller identity"))
		}

		var req models.UpdateProfileRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, "invalid_request", utils.NewBadRequestError("Request body is not valid JSON"))
		}
		if err := validate.Struct(&req); err != nil {
			return respondError(c, "validation_failed", utils.NewValidationError(err.Error()))
		}

		ctx := c.Request().Context()
		if _, err := svc.EnsureUser(ctx, authID, email, name); err != nil {
			return respondError(c, "internal_error", utils.NewInternalServerError("Failed to load user"))
		}

		user, err := svc.UpdateProfile(ctx, authID, &req)
		if err != nil {
			logger.Error("Profile update failed", map[string]interface{}{
				"auth_id":  authID,
				"industry": req.Industry,
				"error":    err.Error(),
			})
			switch {
			case errors.Is(err, utils.ErrGenerationFailed), errors.Is(err, utils.ErrMalformedResponse):
				return respondError(c, "insight_generation_failed", utils.NewLLMError("Could not generate insights for this industry"))
			case errors.Is(err, utils.ErrUserNotFound):
				return respondError(c, "user_not_found", utils.NewNotFoundError("User not found"))
			default:
				return respondError(c, "internal_error", utils.NewInternalServerError("Failed to update profile"))
			}
		}

		_, insight, err := svc.GetInsightForUser(ctx, authID)
		if err != nil {
			return respondError(c, "internal_error", utils.NewInternalServerError("Failed to load insight"))
		}

		return c.JSON(http.StatusOK, models.ProfileResponse{
			Success: true,
			User:    user,
			Insight: insight,
		})
	}
}

// GetProfileHandler returns the caller's profile with their industry
// insight when onboarded.
func GetProfileHandler(svc *insights.Service) echo.HandlerFunc {
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
				return respondError(c, "internal_error", utils.NewInternalServerError("Failed to load profile"))
			}
		}

		return c.JSON(http.StatusOK, models.ProfileResponse{
			Success: true,
			User:    user,
			Insight: insight,
		})
	}
}

// OnboardingStatusHandler reports whether the caller has completed
// onboarding.
func OnboardingStatusHandler(svc *insights.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		authID, email, name, err := callerIdentity(c)
		if err != nil {
			return respondError(c, "unauthorized", utils.NewUnauthorizedError("Missing caller identity"))
		}

		user, err := svc.EnsureUser(c.Request().Context(), authID, email, name)
		if err != nil {
			return respondError(c, "internal_error", utils.NewInternalServerError("Failed to load user"))
		}

		return c.JSON(http.StatusOK, models.OnboardingStatusResponse{
			IsOnboarded: user.IsOnboarded(),
		})
	}
}
