package rest

import (
	"context"
	"net/http"
	"time"

	"myGreenCart/business/recommendation"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CartActionHandler struct {
		validate *validator.Validate
		recorder ActionRecorder
	}

	ActionRecorder interface {
		Submit(ctx context.Context, action recommendation.TrainingAction) error
	}

	CartActionRequest struct {
		ProductID uint64 `json:"product_id" validate:"required"`
		Action    string `json:"action" validate:"required,oneof=add remove reject undo_add undo_remove undo_reject"`
	}
)

func NewCartActionHandler(recorder ActionRecorder) *CartActionHandler {
	return &CartActionHandler{
		validate: validator.New(),
		recorder: recorder,
	}
}

// POST /api/v1/carts/:cart_id/actions
func (h *CartActionHandler) Submit(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	cartID, err := cartIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req CartActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	action := recommendation.TrainingAction{
		Action:     recommendation.Action(req.Action),
		ProductID:  req.ProductID,
		CartID:     cartID,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	if err := h.recorder.Submit(c.Request().Context(), action); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("action recorded"))
}
