package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-workforce/internal/attendance"
	"go-workforce/internal/balance"
	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/messaging/kafka/consumer"
	"go-workforce/internal/policy"
	"go-workforce/internal/request"
	"go-workforce/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	policyRepo := policy.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	resolver := policy.NewResolver(policyRepo, redisClient)
	ledger := balance.NewLedger(balanceRepo)
	projector := attendance.NewProjector(attendanceRepo)

	balanceService := balance.NewService(sqlDB, balanceRepo, resolver)
	requestService := request.NewService(sqlDB, requestRepo, resolver, ledger, projector, outboxRepo)

	lifecycleReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.MemberCreatedTopic,
		GroupID:        "go-workforce-balance",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer lifecycleReader.Close()

	decisionReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.ApprovalDecisionTopic,
		GroupID:        "go-workforce-request",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer decisionReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeMemberLifecycle(ctx, lifecycleReader, balanceService, logger)
	go consumer.ConsumeApprovalDecisions(ctx, decisionReader, requestService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
