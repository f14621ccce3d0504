package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"myGreenCart/business/recommendation"
	"myGreenCart/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	TrainingActionsTopic = "reco.training_actions"

	metadataTraceID = "trace_id"
	metadataAction  = "action"
)

// ActionHandler processes one dequeued action.
type ActionHandler interface {
	Handle(ctx context.Context, action recommendation.TrainingAction) error
}

// TrainingQueue carries cart actions from the request path to the training
// recorder over an in-process watermill pub/sub.
type TrainingQueue struct {
	pubSub   *gochannel.GoChannel
	messages <-chan *message.Message
}

// NewTrainingQueue subscribes immediately so actions published before
// Consume starts are buffered rather than dropped.
func NewTrainingQueue(buffer int64) (*TrainingQueue, error) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
	}, logger.WatermillAdapter())

	messages, err := pubSub.Subscribe(context.Background(), TrainingActionsTopic)
	if err != nil {
		_ = pubSub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", TrainingActionsTopic, err)
	}

	return &TrainingQueue{
		pubSub:   pubSub,
		messages: messages,
	}, nil
}

func (q *TrainingQueue) Publish(ctx context.Context, action recommendation.TrainingAction) error {
	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal training action: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(metadataAction, string(action.Action))
	if tid := recommendation.TraceIDFromContext(ctx); tid != "" {
		msg.Metadata.Set(metadataTraceID, tid)
	}

	if err := q.pubSub.Publish(TrainingActionsTopic, msg); err != nil {
		return fmt.Errorf("publish training action: %w", err)
	}
	return nil
}

// Consume feeds queued actions to h until ctx is done or the queue is
// closed. Failed actions are logged and acked; they are not retried.
func (q *TrainingQueue) Consume(ctx context.Context, h ActionHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-q.messages:
			if !ok {
				return nil
			}
			q.process(ctx, h, msg)
		}
	}
}

func (q *TrainingQueue) process(ctx context.Context, h ActionHandler, msg *message.Message) {
	defer msg.Ack()

	var action recommendation.TrainingAction
	if err := json.Unmarshal(msg.Payload, &action); err != nil {
		logger.Error("reco_training_action_decode_failed",
			"message_uuid", msg.UUID,
			"error", err,
		)
		return
	}

	tid := msg.Metadata.Get(metadataTraceID)
	if tid != "" {
		ctx = recommendation.WithTraceID(ctx, tid)
	}

	if err := h.Handle(ctx, action); err != nil {
		logger.Error("reco_training_action_failed",
			"trace_id", tid,
			"message_uuid", msg.UUID,
			"action", action.Action,
			"product_id", action.ProductID,
			"cart_id", action.CartID,
			"error", err,
		)
	}
}

func (q *TrainingQueue) Close() error {
	return q.pubSub.Close()
}

var _ recommendation.ActionPublisher = (*TrainingQueue)(nil)
