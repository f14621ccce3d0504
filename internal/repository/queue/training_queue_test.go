package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"myGreenCart/business/recommendation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu       sync.Mutex
	actions  []recommendation.TrainingAction
	traceIDs []string
	failOn   recommendation.Action
}

func (h *recordingHandler) Handle(ctx context.Context, a recommendation.TrainingAction) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, a)
	h.traceIDs = append(h.traceIDs, recommendation.TraceIDFromContext(ctx))
	if a.Action == h.failOn {
		return errors.New("handler failed")
	}
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.actions)
}

func TestTrainingQueue_DeliversInOrderAndSurvivesHandlerErrors(t *testing.T) {
	q, err := NewTrainingQueue(16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	ctx := recommendation.WithTraceID(context.Background(), "trace-1")
	require.NoError(t, q.Publish(ctx, recommendation.TrainingAction{Action: recommendation.ActionReject, ProductID: 1, CartID: 2, UserID: 3}))
	require.NoError(t, q.Publish(context.Background(), recommendation.TrainingAction{Action: recommendation.ActionAdd, ProductID: 4, CartID: 2, UserID: 3}))

	h := &recordingHandler{failOn: recommendation.ActionReject}
	consumeCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Consume(consumeCtx, h) }()

	assert.Eventually(t, func() bool { return h.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	h.mu.Lock()
	assert.Equal(t, uint64(1), h.actions[0].ProductID)
	assert.Equal(t, recommendation.ActionAdd, h.actions[1].Action)
	assert.Equal(t, []string{"trace-1", ""}, h.traceIDs)
	h.mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestTrainingQueue_ConsumeReturnsWhenClosed(t *testing.T) {
	q, err := NewTrainingQueue(1)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- q.Consume(context.Background(), &recordingHandler{}) }()

	require.NoError(t, q.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
