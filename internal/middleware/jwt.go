package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/aravinds05/NeoFi-backend-challenge/internal/auth"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject (the user's email) into the request context
// under the key "user_email". Validation is delegated to the token service,
// which rejects bad signatures, expired tokens and refresh tokens presented
// where an access token is expected. This middleware should wrap every
// protected route; handlers resolve the full user record from the email.
func JWTAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Read the Authorization header. A valid header starts with
			// "Bearer " followed by the JWT; anything else is rejected with
			// 401 before any work is done.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			email, err := tokens.DecodeAccessToken(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_email", email)
			return next(c)
		}
	}
}
