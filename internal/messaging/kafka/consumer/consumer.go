package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-workforce/internal/balance"
	"go-workforce/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeMemberLifecycle seeds an annual-leave balance for every new
// member. Delivery is at-least-once; duplicate grants are absorbed inside
// the service, so each handled message commits its offset.
func ConsumeMemberLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService balance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.member_lifecycle")
	log.Info("member lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("member lifecycle consumer stopped")
				return
			}
			log.Error("fetch member lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.MemberCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode member_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		hireDate, err := time.Parse("2006-01-02", event.HireDate)
		if err != nil {
			// Malformed payloads can never succeed; commit and move on.
			log.Error("member_created event carries bad hire date",
				zap.String("member_id", event.MemberID),
				zap.String("hire_date", event.HireDate),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := balanceService.GrantInitial(ctx, event.CompanyID, event.MemberID, hireDate); err != nil {
			// Transient failure: leave the offset uncommitted and retry.
			log.Error("grant initial balance failed",
				zap.String("member_id", event.MemberID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit member lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("balance granted from member_created event",
			zap.String("member_id", event.MemberID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
