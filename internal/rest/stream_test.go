package rest

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, svc RecommendationService) *websocket.Conn {
	t.Helper()

	h := NewRecommendationHandler(svc)
	e := echo.New()
	e.GET("/carts/:cart_id/recommendations/stream", h.Stream, withUser(3))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/carts/7/recommendations/stream?n=3"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestRecommendationHandler_StreamSendsProgressThenResult(t *testing.T) {
	svc := &fakeRecommendationService{items: []domain.Recommendation{{ProductID: 4, Name: "durian"}}}
	conn := dialStream(t, svc)

	for i := 1; i <= 4; i++ {
		var msg streamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, streamTypeProgress, msg.Type)
		assert.Equal(t, 4, msg.Total)
		assert.NotEmpty(t, msg.Stage)
	}

	var final streamMessage
	require.NoError(t, conn.ReadJSON(&final))
	assert.Equal(t, streamTypeResult, final.Type)
	require.Len(t, final.Items, 1)
	assert.Equal(t, "durian", final.Items[0].Name)
}

func TestRecommendationHandler_StreamReportsError(t *testing.T) {
	svc := &fakeRecommendationService{err: recommendation.ErrCartAddressMissing}
	conn := dialStream(t, svc)

	var msg streamMessage
	for {
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != streamTypeProgress {
			break
		}
	}
	assert.Equal(t, streamTypeError, msg.Type)
	assert.Contains(t, msg.Message, "no address")
}
