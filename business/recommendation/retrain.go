package recommendation

import (
	"context"
	"errors"
	"time"

	"myGreenCart/pkg/logger"
)

// RunRetrainLoop retrains the model every interval until ctx is done.
// Runs with no examples yet are skipped quietly.
func RunRetrainLoop(ctx context.Context, model *Model, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := model.Train(ctx)
			switch {
			case err == nil:
				logger.Info("reco_scheduled_retrain_done", "examples", res.Examples)
			case errors.Is(err, ErrDataUnavailable):
				logger.Debug("reco_scheduled_retrain_skipped", "reason", "no examples")
			case ctx.Err() != nil:
				return
			default:
				logger.Error("reco_scheduled_retrain_failed", "error", err)
			}
		}
	}
}
