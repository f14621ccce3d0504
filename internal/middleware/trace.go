package middleware

import (
	"myGreenCart/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderRequestID = "X-Request-ID"
	traceIDKey      = "trace_id"
)

// TraceID takes X-Request-ID or generates one, echoes it back and puts it on
// the request context for the pipeline logs.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tid := c.Request().Header.Get(HeaderRequestID)
			if tid == "" {
				tid = uuid.NewString()
			}

			c.Set(traceIDKey, tid)
			c.Response().Header().Set(HeaderRequestID, tid)

			req := c.Request()
			c.SetRequest(req.WithContext(recommendation.WithTraceID(req.Context(), tid)))

			return next(c)
		}
	}
}
