package producer

import (
	"context"
	"time"

	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/scheduler"

	"go.uber.org/zap"
)

const (
	relayLockName    = "outbox-relay"
	relayBatchSize   = 50
	relayLockMinHold = 1 * time.Second
	relayLockMaxHold = 30 * time.Second
	sentRetention    = 24 * time.Hour
)

// ProcessOutboxEvents polls the outbox and publishes pending rows. Only
// one instance relays at a time: each cycle first takes the cluster
// lease and silently skips when another instance holds it.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	publisher Publisher,
	lock scheduler.LeaseLock,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			lease, err := lock.TryAcquire(ctx, relayLockName, relayLockMinHold, relayLockMaxHold)
			if err != nil {
				log.Error("acquire relay lease failed", zap.Error(err))
				continue
			}
			if lease == nil {
				continue
			}

			if err := processPendingEvents(ctx, repo, publisher, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}

			if deleted, err := repo.DeleteSentBefore(ctx, time.Now().UTC().Add(-sentRetention)); err != nil {
				log.Warn("trim sent outbox events failed", zap.Error(err))
			} else if deleted > 0 {
				log.Info("trimmed sent outbox events", zap.Int64("deleted", deleted))
			}

			if err := lease.Release(ctx); err != nil {
				log.Warn("release relay lease failed", zap.Error(err))
			}
		}
	}
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	publisher Publisher,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, relayBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := publishEvent(ctx, publisher, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}
