package rest

import (
	"errors"
	"net/http"
	"strconv"

	"myGreenCart/business/recommendation"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recommendation.ErrModelUntrained):
		return http.StatusServiceUnavailable
	case errors.Is(err, recommendation.ErrDataUnavailable),
		errors.Is(err, recommendation.ErrDuplicateRejection):
		return http.StatusConflict
	case errors.Is(err, recommendation.ErrCartNotFound),
		errors.Is(err, recommendation.ErrRejectionNotFound),
		errors.Is(err, recommendation.ErrExampleNotFound):
		return http.StatusNotFound
	case errors.Is(err, recommendation.ErrCartAddressMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, recommendation.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
}

func userIDFrom(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

func cartIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("cart_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid cart id")
	}
	return id, nil
}
