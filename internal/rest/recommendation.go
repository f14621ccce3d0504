package rest

import (
	"context"
	"net/http"
	"time"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"
	"myGreenCart/pkg/logger"
	"myGreenCart/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		upgrader websocket.Upgrader
	}

	RecommendationService interface {
		Recommend(ctx context.Context, req recommendation.RecommendRequest) ([]domain.Recommendation, error)
	}

	RecommendQuery struct {
		N int `query:"n" validate:"min=0,max=100"`
	}

	// streamMessage is one websocket frame of the streaming endpoint.
	streamMessage struct {
		Type    string                  `json:"type"`
		Stage   string                  `json:"stage,omitempty"`
		Done    int                     `json:"done,omitempty"`
		Total   int                     `json:"total,omitempty"`
		Error   string                  `json:"error,omitempty"`
		Items   []domain.Recommendation `json:"items,omitempty"`
		Message string                  `json:"message,omitempty"`
	}
)

const (
	streamTypeProgress = "progress"
	streamTypeResult   = "result"
	streamTypeError    = "error"

	streamWriteTimeout = 5 * time.Second
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *RecommendationHandler) parse(c echo.Context) (recommendation.RecommendRequest, error) {
	cartID, err := cartIDParam(c)
	if err != nil {
		return recommendation.RecommendRequest{}, err
	}

	var q RecommendQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return recommendation.RecommendRequest{}, err
	}
	if err := h.validate.Struct(&q); err != nil {
		return recommendation.RecommendRequest{}, err
	}

	userID, _ := userIDFrom(c)
	return recommendation.RecommendRequest{CartID: cartID, UserID: userID, K: q.N}, nil
}

// GET /api/v1/carts/:cart_id/recommendations?n=10
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	if _, ok := userIDFrom(c); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	req, err := h.parse(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	recs, err := h.service.Recommend(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	metrics.RecommendationsServed.Observe(float64(len(recs)))

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/carts/:cart_id/recommendations/stream?n=10 (websocket)
func (h *RecommendationHandler) Stream(c echo.Context) error {
	if _, ok := userIDFrom(c); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	req, err := h.parse(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already answered the request
		logger.Warn("Websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	type outcome struct {
		items []domain.Recommendation
		err   error
	}

	ctx := c.Request().Context()
	progress := make(chan recommendation.ProgressEvent, 8)
	done := make(chan outcome, 1)
	req.Progress = recommendation.NonBlocking(progress)

	go func() {
		items, err := h.service.Recommend(ctx, req)
		done <- outcome{items: items, err: err}
	}()

	for {
		select {
		case ev := <-progress:
			if err := writeFrame(conn, progressFrame(ev)); err != nil {
				logger.Warn("Websocket write failed", "trace_id", recommendation.TraceIDFromContext(ctx), "error", err)
				return nil
			}
		case out := <-done:
			for drained := false; !drained; {
				select {
				case ev := <-progress:
					if err := writeFrame(conn, progressFrame(ev)); err != nil {
						return nil
					}
				default:
					drained = true
				}
			}

			final := streamMessage{Type: streamTypeResult, Items: out.items}
			if out.err != nil {
				final = streamMessage{Type: streamTypeError, Message: out.err.Error()}
			} else {
				if final.Items == nil {
					final.Items = []domain.Recommendation{}
				}
				metrics.RecommendationsServed.Observe(float64(len(out.items)))
			}
			if err := writeFrame(conn, final); err != nil {
				return nil
			}

			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteTimeout))
			return nil
		}
	}
}

func progressFrame(ev recommendation.ProgressEvent) streamMessage {
	return streamMessage{
		Type:  streamTypeProgress,
		Stage: ev.Stage,
		Done:  ev.Done,
		Total: ev.Total,
		Error: ev.Error,
	}
}

func writeFrame(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}
