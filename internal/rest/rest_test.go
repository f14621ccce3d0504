package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommendationService struct {
	got   recommendation.RecommendRequest
	items []domain.Recommendation
	err   error
}

func (f *fakeRecommendationService) Recommend(_ context.Context, req recommendation.RecommendRequest) ([]domain.Recommendation, error) {
	f.got = req
	if req.Progress != nil {
		for i, stage := range []string{domain.SourceCoPurchase, domain.SourceRepurchase, domain.SourceTrending, domain.SourceFrequency} {
			req.Progress(recommendation.ProgressEvent{Stage: stage, Done: i + 1, Total: 4})
		}
	}
	return f.items, f.err
}

type fakeRecorder struct {
	actions []recommendation.TrainingAction
	err     error
}

func (f *fakeRecorder) Submit(_ context.Context, a recommendation.TrainingAction) error {
	if f.err != nil {
		return f.err
	}
	f.actions = append(f.actions, a)
	return nil
}

type fakeModel struct {
	weights recommendation.Weights
	err     error
}

func (f *fakeModel) Train(context.Context) (recommendation.TrainResult, error) {
	if f.err != nil {
		return recommendation.TrainResult{}, f.err
	}
	return recommendation.TrainResult{Examples: 3, Weights: f.weights}, nil
}

func (f *fakeModel) CurrentWeights(context.Context) (recommendation.Weights, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.weights, nil
}

// withUser stands in for the identity middleware.
func withUser(id uint) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", id)
			return next(c)
		}
	}
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{recommendation.ErrModelUntrained, http.StatusServiceUnavailable},
		{recommendation.ErrDataUnavailable, http.StatusConflict},
		{recommendation.ErrDuplicateRejection, http.StatusConflict},
		{recommendation.ErrCartNotFound, http.StatusNotFound},
		{recommendation.ErrExampleNotFound, http.StatusNotFound},
		{recommendation.ErrCartAddressMissing, http.StatusUnprocessableEntity},
		{recommendation.ErrUnknownAction, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
		{fmt.Errorf("load cart: %w", recommendation.ErrCartNotFound), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestRecommendationHandler_Recommend(t *testing.T) {
	svc := &fakeRecommendationService{items: []domain.Recommendation{{ProductID: 4, Name: "durian", Image: "durian.png", Probability: 0.9}}}
	h := NewRecommendationHandler(svc)
	e := echo.New()
	e.GET("/carts/:cart_id/recommendations", h.Recommend, withUser(3))

	rec := serve(e, http.MethodGet, "/carts/7/recommendations?n=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"durian"`)
	assert.Equal(t, uint64(7), svc.got.CartID)
	assert.Equal(t, uint(3), svc.got.UserID)
	assert.Equal(t, 5, svc.got.K)

	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodGet, "/carts/x/recommendations", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodGet, "/carts/7/recommendations?n=-1", "").Code)

	svc.err = recommendation.ErrModelUntrained
	rec = serve(e, http.MethodGet, "/carts/7/recommendations", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 0, svc.got.K)
}

func TestRecommendationHandler_RequiresUser(t *testing.T) {
	h := NewRecommendationHandler(&fakeRecommendationService{})
	e := echo.New()
	e.GET("/carts/:cart_id/recommendations", h.Recommend)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/carts/7/recommendations", "").Code)
}

func TestCartActionHandler_Submit(t *testing.T) {
	recorder := &fakeRecorder{}
	h := NewCartActionHandler(recorder)
	e := echo.New()
	e.POST("/carts/:cart_id/actions", h.Submit, withUser(3))

	rec := serve(e, http.MethodPost, "/carts/7/actions", `{"product_id":11,"action":"reject"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, recorder.actions, 1)
	got := recorder.actions[0]
	assert.Equal(t, recommendation.ActionReject, got.Action)
	assert.Equal(t, uint64(11), got.ProductID)
	assert.Equal(t, uint64(7), got.CartID)
	assert.Equal(t, uint(3), got.UserID)
	assert.False(t, got.OccurredAt.IsZero())

	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/carts/7/actions", `{"product_id":11,"action":"wishlist"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/carts/7/actions", `{"action":"add"}`).Code)
	assert.Len(t, recorder.actions, 1)

	recorder.err = recommendation.ErrDuplicateRejection
	assert.Equal(t, http.StatusConflict, serve(e, http.MethodPost, "/carts/7/actions", `{"product_id":11,"action":"reject"}`).Code)
}

func TestModelAdminHandler(t *testing.T) {
	model := &fakeModel{weights: recommendation.Weights{domain.FeatureBias: 0.25}}
	h := NewModelAdminHandler(model)
	e := echo.New()
	e.POST("/admin/model/train", h.Train)
	e.GET("/admin/model/weights", h.Weights)

	rec := serve(e, http.MethodPost, "/admin/model/train", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"examples":3`)

	rec = serve(e, http.MethodGet, "/admin/model/weights", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bias":0.25`)

	model.err = recommendation.ErrDataUnavailable
	assert.Equal(t, http.StatusConflict, serve(e, http.MethodPost, "/admin/model/train", "").Code)

	model.err = recommendation.ErrModelUntrained
	assert.Equal(t, http.StatusServiceUnavailable, serve(e, http.MethodGet, "/admin/model/weights", "").Code)
}
