package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-workforce/internal/attendance"
	"go-workforce/internal/balance"
	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/policy"
	policyerrors "go-workforce/internal/policy/errors"
	requesterrors "go-workforce/internal/request/errors"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var halfDay = decimal.NewFromFloat(0.5)

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, memberID string, req CreateRequest) (RequestResponse, error)
	Cancel(ctx context.Context, companyID, memberID, requestID string) (RequestResponse, error)
	GetMyRequests(ctx context.Context, companyID, memberID string) ([]RequestResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RequestResponse, error)
	// ApplyDecision folds an approval outcome into the request. Replays and
	// decisions for unknown requests are logged no-ops.
	ApplyDecision(ctx context.Context, event events.ApprovalDecisionEvent) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	resolver  policy.Resolver
	ledger    balance.Ledger
	projector attendance.Projector
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	resolver policy.Resolver,
	ledger balance.Ledger,
	projector attendance.Projector,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		resolver:  resolver,
		ledger:    ledger,
		projector: projector,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID, memberID string, req CreateRequest) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequestID
	}
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequestID
	}
	typeCode, err := policy.PolicyTypeCodeFromValue(req.TypeCode)
	if err != nil {
		return RequestResponse{}, policyerrors.ErrUnknownPolicyType
	}
	unit, err := RequestUnitFromValue(req.Unit)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrUnknownUnit
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidPeriod
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil || endAt.Before(startAt) {
		return RequestResponse{}, requesterrors.ErrInvalidPeriod
	}
	if unit.HalfDay() && !sameDate(startAt, endAt) {
		return RequestResponse{}, requesterrors.ErrHalfDaySpansDays
	}

	target := policy.ResolveTarget{
		MemberID:         memberID,
		MemberPositionID: req.MemberPositionID,
		OrganizationIDs:  req.OrganizationIDs,
		CompanyID:        companyID,
	}
	p, err := s.resolver.Resolve(ctx, target, typeCode, startAt)
	if err != nil {
		return RequestResponse{}, err
	}

	deduction := deductionDays(unit, startAt, endAt)
	if typeCode.BalanceDeductible() {
		rules, err := p.Rules()
		if err != nil {
			return RequestResponse{}, err
		}
		if _, err := rules.Leave(); err != nil {
			return RequestResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create request begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	if typeCode.BalanceDeductible() && deduction.IsPositive() {
		if err := s.ledger.Deduct(ctx, tx, companyID, memberID, typeCode, startAt.Year(), deduction); err != nil {
			return RequestResponse{}, err
		}
	}

	row := &Request{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		MemberID:      memberUUID,
		PolicyID:      p.ID,
		TypeCode:      typeCode,
		Unit:          unit,
		StartAt:       startAt,
		EndAt:         endAt,
		Reason:        req.Reason,
		DeductionDays: deduction,
		Status:        StatusPending,
	}
	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create request persist failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	event := events.ApprovalRequestedEvent{
		EventType:      "approval_requested",
		RequestID:      row.ID.String(),
		MemberID:       memberID,
		CompanyID:      companyID,
		PolicyTypeCode: string(typeCode),
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal approval_requested failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "workforce_request",
		AggregateID:   row.ID.String(),
		EventType:     "approval_requested",
		Topic:         events.ApprovalRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("create request outbox persist failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create request commit failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	row.CreatedAt = time.Now().UTC()
	s.logger.Info("request created",
		zap.String("request_id", rid),
		zap.String("id", row.ID.String()),
		zap.String("member_id", memberID),
		zap.String("type_code", string(typeCode)),
		zap.String("deduction_days", deduction.String()),
	)
	return mapRequestToResponse(*row), nil
}

func (s *service) Cancel(ctx context.Context, companyID, memberID, requestID string) (RequestResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	if row.CompanyID.String() != companyID {
		return RequestResponse{}, requesterrors.ErrRequestNotFound
	}
	if row.MemberID.String() != memberID {
		return RequestResponse{}, requesterrors.ErrNotRequester
	}
	if row.Status != StatusPending {
		return RequestResponse{}, requesterrors.ErrNotCancelable
	}

	if err := qtx.UpdateStatus(ctx, requestID, StatusCanceled, nil, nil); err != nil {
		return RequestResponse{}, err
	}
	if row.TypeCode.BalanceDeductible() && row.DeductionDays.IsPositive() {
		if err := s.ledger.Restore(ctx, tx, companyID, memberID, row.TypeCode, row.StartAt.Year(), row.DeductionDays); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	row.Status = StatusCanceled
	s.logger.Info("request canceled",
		zap.String("id", requestID),
		zap.String("member_id", memberID),
	)
	return mapRequestToResponse(*row), nil
}

func (s *service) GetMyRequests(ctx context.Context, companyID, memberID string) ([]RequestResponse, error) {
	rows, err := s.repo.FindAllByMember(ctx, companyID, memberID)
	if err != nil {
		return nil, err
	}
	resp := make([]RequestResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapRequestToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RequestResponse, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	return mapRequestToResponse(*row), nil
}

func (s *service) ApplyDecision(ctx context.Context, event events.ApprovalDecisionEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindForUpdate(ctx, event.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The decision references a request this service never saw.
			// Committing the offset without acting is the safe outcome.
			s.logger.Warn("decision for unknown request ignored",
				zap.String("id", event.RequestID),
				zap.String("state", event.State),
			)
			return nil
		}
		return err
	}
	if row.Status.Terminal() {
		s.logger.Info("decision replay ignored, request already terminal",
			zap.String("id", event.RequestID),
			zap.String("status", string(row.Status)),
		)
		return nil
	}

	var approvalID *uuid.UUID
	if parsed, err := uuid.Parse(event.ApprovalID); err == nil {
		approvalID = &parsed
	}
	completedAt := event.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	switch event.State {
	case events.DecisionApproved:
		if err := qtx.UpdateStatus(ctx, event.RequestID, StatusApproved, approvalID, &completedAt); err != nil {
			return err
		}
		if row.TypeCode.AttendanceRelevant() {
			if err := s.projector.Apply(ctx, tx, attendance.Projection{
				CompanyID: row.CompanyID.String(),
				MemberID:  row.MemberID.String(),
				TypeCode:  row.TypeCode,
				Unit:      string(row.Unit),
				StartAt:   row.StartAt,
				EndAt:     row.EndAt,
			}); err != nil {
				return err
			}
		}
	case events.DecisionRejected, events.DecisionDiscarded:
		status := StatusRejected
		if event.State == events.DecisionDiscarded {
			status = StatusCanceled
		}
		if err := qtx.UpdateStatus(ctx, event.RequestID, status, approvalID, &completedAt); err != nil {
			return err
		}
		if row.TypeCode.BalanceDeductible() && row.DeductionDays.IsPositive() {
			if err := s.ledger.Restore(ctx, tx, row.CompanyID.String(), row.MemberID.String(), row.TypeCode, row.StartAt.Year(), row.DeductionDays); err != nil {
				return err
			}
		}
	default:
		s.logger.Warn("decision with unknown state ignored",
			zap.String("id", event.RequestID),
			zap.String("state", event.State),
		)
		return nil
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("decision applied",
		zap.String("id", event.RequestID),
		zap.String("state", event.State),
	)
	return nil
}

// deductionDays values a request in balance days. Whole-day units count
// calendar days inclusive; half days are 0.5; hourly time off never
// touches the ledger.
func deductionDays(unit RequestUnit, startAt, endAt time.Time) decimal.Decimal {
	switch unit {
	case UnitDay:
		days := int(dateOnly(endAt).Sub(dateOnly(startAt)).Hours()/24) + 1
		return decimal.NewFromInt(int64(days))
	case UnitHalfDayAM, UnitHalfDayPM:
		return halfDay
	default:
		return decimal.Zero
	}
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
