package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"careerpilot-api/pkg/models"
)

// Context keys populated by Auth for downstream handlers
const (
	ContextAuthID = "auth_id"
	ContextEmail  = "auth_email"
	ContextName   = "auth_name"
)

// Claims carries the identity fields the API needs from the token
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token on every request and stores the caller
// identity in the request context. The subject claim is the stable auth
// identity that user rows key on.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c, "Missing bearer token")
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				return unauthorized(c, "Invalid or expired token")
			}
			if claims.Subject == "" {
				return unauthorized(c, "Token missing subject")
			}

			c.Set(ContextAuthID, claims.Subject)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextName, claims.Name)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func unauthorized(c echo.Context, message string) error {
	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
