package app

import (
	"database/sql"

	"go-workforce/internal/attendance"
	"go-workforce/internal/balance"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/middleware"
	"go-workforce/internal/policy"
	"go-workforce/internal/request"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	policyRepo := policy.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Domain core ---
	resolver := policy.NewResolver(policyRepo, rdb)
	ledger := balance.NewLedger(balanceRepo)
	projector := attendance.NewProjector(attendanceRepo)

	// --- Services ---
	policyService := policy.NewService(policyRepo)
	balanceService := balance.NewService(db, balanceRepo, resolver)
	requestService := request.NewService(db, requestRepo, resolver, ledger, projector, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, resolver)

	// --- Handlers ---
	policyHandler := policy.NewHandler(policyService)
	balanceHandler := balance.NewHandler(balanceService)
	requestHandler := request.NewHandler(requestService)
	attendanceHandler := attendance.NewHandler(attendanceService)

	// --- Middleware & Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	api := router.Group("/api/v1")
	api.Use(middleware.Principal())
	api.Use(middleware.ContextLogger(zap.L()))
	api.Use(middleware.RateLimitByMember(rate.Limit(10), 20))
	api.Use(middleware.Idempotency(rdb))
	{
		policy.RegisterRoutes(api, policyHandler)
		balance.RegisterRoutes(api, balanceHandler)
		request.RegisterRoutes(api, requestHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
	}

	return nil
}
