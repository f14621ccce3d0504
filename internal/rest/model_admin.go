package rest

import (
	"context"
	"net/http"

	"myGreenCart/business/recommendation"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ModelAdminHandler struct {
		model RankingModel
	}

	RankingModel interface {
		Train(ctx context.Context) (recommendation.TrainResult, error)
		CurrentWeights(ctx context.Context) (recommendation.Weights, error)
	}
)

func NewModelAdminHandler(model RankingModel) *ModelAdminHandler {
	return &ModelAdminHandler{model: model}
}

// POST /api/v1/admin/model/train
func (h *ModelAdminHandler) Train(c echo.Context) error {
	res, err := h.model.Train(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/admin/model/weights
func (h *ModelAdminHandler) Weights(c echo.Context) error {
	w, err := h.model.CurrentWeights(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(w))
}
