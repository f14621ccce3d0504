package recommendation

import (
	"context"
	"testing"
	"time"

	"myGreenCart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRetrainLoop(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.examples.Create(context.Background(), &domain.TrainingExample{
		ProductID: 1, Label: domain.LabelKept, Features: domain.FeatureVector{Bias: 1},
	}))
	model := NewModel(f.weights, f.examples, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunRetrainLoop(ctx, model, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		f.weights.mu.Lock()
		defer f.weights.mu.Unlock()
		return f.weights.replaces >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("retrain loop did not stop")
	}
}

func TestRunRetrainLoop_DisabledReturnsImmediately(t *testing.T) {
	f := newFixture()
	RunRetrainLoop(context.Background(), NewModel(f.weights, f.examples, testConfig()), 0)
}
