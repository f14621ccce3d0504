package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myGreenCart/domain"
	"myGreenCart/pkg/logger"
)

// Action is a cart event reported by the cart-management layer.
type Action string

const (
	ActionAdd        Action = "add"
	ActionRemove     Action = "remove"
	ActionReject     Action = "reject"
	ActionUndoAdd    Action = "undo_add"
	ActionUndoRemove Action = "undo_remove"
	ActionUndoReject Action = "undo_reject"
)

// Effect returns the label the action writes, or for undo actions the label
// of the example it deletes.
func (a Action) Effect() (label int, undo bool, err error) {
	switch a {
	case ActionAdd:
		return domain.LabelKept, false, nil
	case ActionRemove, ActionReject:
		return domain.LabelRejected, false, nil
	case ActionUndoAdd:
		return domain.LabelKept, true, nil
	case ActionUndoRemove, ActionUndoReject:
		return domain.LabelRejected, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
}

// TrainingAction is the queued unit of work for the recorder.
type TrainingAction struct {
	Action     Action    `json:"action"`
	ProductID  uint64    `json:"product_id"`
	CartID     uint64    `json:"cart_id"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	// Features is set for rejects, taken before the rejection is stored.
	Features *domain.FeatureVector `json:"features,omitempty"`
}

// Recorder turns cart actions into labeled training examples.
type Recorder struct {
	extractor    *FeatureExtractor
	availability *AvailabilityChecker
	examples     TrainingExampleStore
	rejections   RejectionStore
	model        *Model
	publisher    ActionPublisher

	onlineUpdates      bool
	onlineLearningRate float64
	rejectionRetention time.Duration
	now                func() time.Time
}

// NewRecorder shares the extractor, availability checker and model of svc.
// With a nil publisher, Submit processes actions inline.
func NewRecorder(svc *RecommendationService, deps Deps, publisher ActionPublisher) *Recorder {
	return &Recorder{
		extractor:          svc.Extractor(),
		availability:       svc.Availability(),
		examples:           deps.Examples,
		rejections:         deps.Rejections,
		model:              svc.Model(),
		publisher:          publisher,
		onlineUpdates:      svc.cfg.OnlineUpdates,
		onlineLearningRate: svc.cfg.OnlineLearningRate,
		rejectionRetention: svc.cfg.RejectionRetention,
		now:                func() time.Time { return svc.now() },
	}
}

// Submit does the synchronous part of an action (rejection bookkeeping) and
// hands the training effect to the queue.
func (r *Recorder) Submit(ctx context.Context, action TrainingAction) error {
	if _, _, err := action.Action.Effect(); err != nil {
		return err
	}
	if action.OccurredAt.IsZero() {
		action.OccurredAt = r.now()
	}

	switch action.Action {
	case ActionReject:
		return r.submitReject(ctx, action)
	case ActionUndoReject:
		if err := r.rejections.Delete(ctx, action.CartID, action.ProductID, action.UserID); err != nil {
			return err
		}
	}

	return r.dispatch(ctx, action)
}

func (r *Recorder) submitReject(ctx context.Context, action TrainingAction) error {
	fv, err := r.snapshot(ctx, action.ProductID, action.CartID, action.UserID)
	if err != nil {
		return err
	}
	action.Features = &fv

	if err := r.rejections.Create(ctx, &domain.RejectionEvent{
		CartID:     action.CartID,
		ProductID:  action.ProductID,
		RejectedBy: action.UserID,
	}, r.now().Add(-r.rejectionRetention)); err != nil {
		return err
	}

	if err := r.dispatch(ctx, action); err != nil {
		if rbErr := r.rejections.Delete(ctx, action.CartID, action.ProductID, action.UserID); rbErr != nil {
			logger.Error("reco_reject_rollback_failed",
				"cart_id", action.CartID,
				"product_id", action.ProductID,
				"error", rbErr,
			)
		}
		return err
	}
	return nil
}

func (r *Recorder) dispatch(ctx context.Context, action TrainingAction) error {
	if r.publisher == nil {
		return r.Handle(ctx, action)
	}
	if err := r.publisher.Publish(ctx, action); err != nil {
		return fmt.Errorf("enqueue training action: %w", err)
	}
	return nil
}

// Handle applies one action to the training set. It is the queue consumer.
func (r *Recorder) Handle(ctx context.Context, action TrainingAction) error {
	label, undo, err := action.Action.Effect()
	if err != nil {
		return err
	}

	switch {
	case undo:
		err = r.Undo(ctx, action.ProductID, label)
	case action.Features != nil:
		err = r.store(ctx, action.ProductID, action.CartID, action.UserID, label, *action.Features)
	default:
		err = r.Record(ctx, action.ProductID, action.CartID, action.UserID, label)
	}
	if err != nil {
		return fmt.Errorf("%s product %d: %w", action.Action, action.ProductID, err)
	}

	TrainingActionsTotal.WithLabelValues(string(action.Action)).Inc()
	return nil
}

// Record snapshots the product's features for this cart and user and stores
// them with label.
func (r *Recorder) Record(ctx context.Context, productID, cartID uint64, userID uint, label int) error {
	fv, err := r.snapshot(ctx, productID, cartID, userID)
	if err != nil {
		return err
	}
	return r.store(ctx, productID, cartID, userID, label, fv)
}

func (r *Recorder) snapshot(ctx context.Context, productID, cartID uint64, userID uint) (domain.FeatureVector, error) {
	storeCounts := map[uint64]int{}
	avail, err := r.availability.Lookup(ctx, cartID, []uint64{productID})
	switch {
	case err == nil:
		storeCounts = avail.Counts
	case errors.Is(err, ErrCartAddressMissing):
		// no address: store_count stays 0
	default:
		return domain.FeatureVector{}, err
	}

	features, err := r.extractor.Extract(ctx, cartID, userID, []uint64{productID}, storeCounts)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	return features[productID], nil
}

func (r *Recorder) store(ctx context.Context, productID, cartID uint64, userID uint, label int, fv domain.FeatureVector) error {
	example := &domain.TrainingExample{
		ProductID: productID,
		CartID:    cartID,
		UserID:    userID,
		Label:     label,
		Features:  fv,
	}
	if err := r.examples.Create(ctx, example); err != nil {
		return fmt.Errorf("save training example: %w", err)
	}

	if r.onlineUpdates {
		if _, err := r.model.OnlineUpdate(ctx, fv, label, r.onlineLearningRate); err != nil {
			if errors.Is(err, ErrModelUntrained) {
				logger.Debug("reco_online_update_skipped", "reason", "untrained")
				return nil
			}
			return fmt.Errorf("online update: %w", err)
		}
	}

	return nil
}

// Undo deletes one stored example with the same product and label.
func (r *Recorder) Undo(ctx context.Context, productID uint64, label int) error {
	return r.examples.DeleteOne(ctx, productID, label)
}
