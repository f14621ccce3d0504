package router

import (
	"net/http"

	"myGreenCart/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, identity echo.MiddlewareFunc) {
	reco := api.Group("/carts/:cart_id/recommendations", identity)
	reco.GET("", handler.Recommend)
	reco.GET("/stream", handler.Stream)
}

func SetCartActionRoutes(api *echo.Group, handler *rest.CartActionHandler, identity echo.MiddlewareFunc) {
	actions := api.Group("/carts/:cart_id/actions", identity)
	actions.POST("", handler.Submit)
}

func SetModelAdminRoutes(api *echo.Group, handler *rest.ModelAdminHandler) {
	admin := api.Group("/admin/model")
	admin.POST("/train", handler.Train)
	admin.GET("/weights", handler.Weights)
}

// SetOpsRoutes mounts /metrics and /healthz at the root.
func SetOpsRoutes(e *echo.Echo, breakerState func() string) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":               "ok",
			"availability_breaker": breakerState(),
		})
	})
}
