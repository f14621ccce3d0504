package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"myGreenCart/domain"
	"myGreenCart/pkg/logger"
)

// Weights maps feature name to weight.
type Weights map[string]float64

// vector lays the weights out in FeatureNames order; missing names are 0.
func (w Weights) vector() [domain.FeatureDim]float64 {
	var v [domain.FeatureDim]float64
	for i, name := range domain.FeatureNames {
		v[i] = w[name]
	}
	return v
}

func weightsFromVector(v [domain.FeatureDim]float64) Weights {
	w := make(Weights, domain.FeatureDim)
	for i, name := range domain.FeatureNames {
		w[name] = v[i]
	}
	return w
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b [domain.FeatureDim]float64) float64 {
	sum := 0.0
	for i := range domain.FeatureDim {
		sum += a[i] * b[i]
	}
	return sum
}

// Predict is the logistic score of fv under w.
func Predict(fv domain.FeatureVector, w Weights) float64 {
	return sigmoid(dot(fv.Values(), w.vector()))
}

// Model is a logistic-regression ranker over persisted weights. Train and
// OnlineUpdate both replace the whole weight set and are serialized.
type Model struct {
	weights  WeightStore
	examples TrainingExampleStore

	learningRate float64
	iterations   int

	mu sync.Mutex
}

func NewModel(weights WeightStore, examples TrainingExampleStore, cfg Config) *Model {
	cfg = cfg.withDefaults()
	return &Model{
		weights:      weights,
		examples:     examples,
		learningRate: cfg.LearningRate,
		iterations:   cfg.Iterations,
	}
}

type TrainResult struct {
	Examples int     `json:"examples"`
	Weights  Weights `json:"weights"`
}

// Train runs full-batch gradient descent over every stored example, starting
// from zero weights, and persists the result.
func (m *Model) Train(ctx context.Context) (TrainResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return TrainResult{}, fmt.Errorf("context error: %w", err)
	}

	examples, err := m.examples.ListAll(ctx)
	if err != nil {
		ModelTrainRunsTotal.WithLabelValues("error").Inc()
		return TrainResult{}, fmt.Errorf("load training examples: %w", err)
	}
	if len(examples) == 0 {
		ModelTrainRunsTotal.WithLabelValues("no_data").Inc()
		return TrainResult{}, fmt.Errorf("train: %w", ErrDataUnavailable)
	}

	xs := make([][domain.FeatureDim]float64, len(examples))
	ys := make([]float64, len(examples))
	for i, ex := range examples {
		xs[i] = ex.Features.Values()
		ys[i] = float64(ex.Label)
	}

	w := gradientDescent(xs, ys, m.learningRate, m.iterations)
	weights := weightsFromVector(w)

	if err := m.weights.ReplaceAll(ctx, weights); err != nil {
		ModelTrainRunsTotal.WithLabelValues("error").Inc()
		return TrainResult{}, fmt.Errorf("persist weights: %w", err)
	}

	ModelTrainRunsTotal.WithLabelValues("ok").Inc()
	logger.Info("reco_model_trained",
		"examples", len(examples),
		"iterations", m.iterations,
		"learning_rate", m.learningRate,
	)

	return TrainResult{Examples: len(examples), Weights: weights}, nil
}

// gradientDescent minimizes mean binary cross-entropy from w = 0.
func gradientDescent(xs [][domain.FeatureDim]float64, ys []float64, lr float64, iterations int) [domain.FeatureDim]float64 {
	var w [domain.FeatureDim]float64
	n := float64(len(xs))

	for it := 0; it < iterations; it++ {
		var grad [domain.FeatureDim]float64
		for i, x := range xs {
			diff := sigmoid(dot(w, x)) - ys[i]
			for j := range domain.FeatureDim {
				grad[j] += diff * x[j]
			}
		}
		for j := range domain.FeatureDim {
			w[j] -= lr * grad[j] / n
		}
	}
	return w
}

// OnlineUpdate applies one stochastic gradient step for (fv, label) to the
// persisted weights.
func (m *Model) OnlineUpdate(ctx context.Context, fv domain.FeatureVector, label int, learningRate float64) (Weights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.weights.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	if len(current) == 0 {
		return nil, ErrModelUntrained
	}

	w := Weights(current).vector()
	x := fv.Values()
	diff := sigmoid(dot(w, x)) - float64(label)
	for j := range domain.FeatureDim {
		w[j] -= learningRate * diff * x[j]
	}

	updated := weightsFromVector(w)
	if err := m.weights.ReplaceAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("persist weights: %w", err)
	}
	OnlineUpdatesTotal.Inc()

	return updated, nil
}

// CurrentWeights returns the persisted weights or ErrModelUntrained.
func (m *Model) CurrentWeights(ctx context.Context) (Weights, error) {
	current, err := m.weights.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	if len(current) == 0 {
		return nil, ErrModelUntrained
	}
	return Weights(current), nil
}

type Candidate struct {
	ProductID uint64
	Features  domain.FeatureVector
}

type RankedCandidate struct {
	ProductID   uint64
	Probability float64
}

// Rank scores candidates and sorts them by probability, keeping input order on ties.
func (m *Model) Rank(ctx context.Context, candidates []Candidate) ([]RankedCandidate, error) {
	w, err := m.CurrentWeights(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, RankedCandidate{
			ProductID:   c.ProductID,
			Probability: Predict(c.Features, w),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})

	return out, nil
}
