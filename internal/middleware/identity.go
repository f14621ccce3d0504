package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const HeaderUserID = "X-User-ID"

// UserIdentity reads the caller's user id, set by the gateway in front of
// this service, into c.Get("user_id") as a uint.
func UserIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, errorBody{Message: "missing " + HeaderUserID + " header"})
			}

			userID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || userID == 0 {
				return c.JSON(http.StatusUnauthorized, errorBody{Message: "invalid " + HeaderUserID + " header"})
			}

			c.Set("user_id", uint(userID))
			return next(c)
		}
	}
}
