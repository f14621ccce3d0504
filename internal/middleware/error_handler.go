package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"myGreenCart/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string `json:"message"`
}

// ErrorHandler is the echo HTTPErrorHandler. Handlers answer domain errors
// themselves; anything reaching here is an echo error or an unexpected one.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		logger.Error("Unhandled error",
			"trace_id", c.Get(traceIDKey),
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorBody{Message: message})
	}
	if err != nil {
		logger.Error("Failed to write error response", err)
	}
}
