package consumer

import (
	"context"
	"encoding/json"

	"go-workforce/internal/events"
	"go-workforce/internal/request"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeApprovalDecisions folds approval outcomes into requests.
// ApplyDecision is idempotent, so a replay after a crashed commit is
// harmless; transient failures leave the offset uncommitted for retry.
func ConsumeApprovalDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	requestService request.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_decision")
	log.Info("approval decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval decision consumer stopped")
				return
			}
			log.Error("fetch approval decision message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := requestService.ApplyDecision(ctx, event); err != nil {
			log.Error("apply approval decision failed",
				zap.String("request_id", event.RequestID),
				zap.String("state", event.State),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval decision message failed", zap.Error(err))
			continue
		}

		log.Info("approval decision applied",
			zap.String("request_id", event.RequestID),
			zap.String("state", event.State),
		)
	}
}
