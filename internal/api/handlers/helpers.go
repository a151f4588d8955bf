package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"careerpilot-api/internal/api/middleware"
	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

// callerIdentity reads the verified identity placed by the auth
// middleware. A request that reached a handler without one gets
// utils.ErrUnauthorized.
func callerIdentity(c echo.Context) (authID, email, name string, err error) {
	authID, _ = c.Get(middleware.ContextAuthID).(string)
	if authID == "" {
		return "", "", "", utils.ErrUnauthorized
	}
	email, _ = c.Get(middleware.ContextEmail).(string)
	name, _ = c.Get(middleware.ContextName).(string)
	return authID, email, name, nil
}

// respondError writes the JSON error envelope for a CustomError
func respondError(c echo.Context, slug string, cerr *utils.CustomError) error {
	requestID, _ := c.Get("request_id").(string)
	return c.JSON(cerr.Code, models.ErrorResponse{
		Error:     slug,
		Message:   cerr.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
