package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"RiskPulse/internal/usecase"
	xhttp "RiskPulse/pkg/http"
)

const userIDContextKey = "auth.user_id"

// JWTMiddleware authenticates bearer tokens and stores the user id on
// the request context.
func JWTMiddleware(accounts *usecase.AccountUseCase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("missing bearer token"))
			}
			userID, err := accounts.VerifyToken(token)
			if err != nil {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("invalid or expired token"))
			}
			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

// authedUserID returns the user id set by JWTMiddleware.
func authedUserID(c echo.Context) uint {
	id, _ := c.Get(userIDContextKey).(uint)
	return id
}
