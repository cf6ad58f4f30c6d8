package request_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-workforce/internal/attendance"
	balanceerrors "go-workforce/internal/balance/errors"
	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/policy"
	policyerrors "go-workforce/internal/policy/errors"
	"go-workforce/internal/request"
	requesterrors "go-workforce/internal/request/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRequestRepository struct {
	createFn             func(ctx context.Context, r *request.Request) error
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*request.Request, error)
	findAllByMemberFn    func(ctx context.Context, companyID, memberID string) ([]request.Request, error)
	findForUpdateFn      func(ctx context.Context, id string) (*request.Request, error)
	updateStatusFn       func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error
}

func (f *fakeRequestRepository) WithTx(tx *sql.Tx) request.Repository { return f }

func (f *fakeRequestRepository) Create(ctx context.Context, r *request.Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRequestRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*request.Request, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) FindAllByMember(ctx context.Context, companyID, memberID string) ([]request.Request, error) {
	if f.findAllByMemberFn != nil {
		return f.findAllByMemberFn(ctx, companyID, memberID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindForUpdate(ctx context.Context, id string) (*request.Request, error) {
	if f.findForUpdateFn != nil {
		return f.findForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) UpdateStatus(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status, approvalID, completedAt)
	}
	return nil
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, target policy.ResolveTarget, typeCode policy.PolicyTypeCode, date time.Time) (*policy.Policy, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, target policy.ResolveTarget, typeCode policy.PolicyTypeCode, date time.Time) (*policy.Policy, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, target, typeCode, date)
	}
	return nil, policyerrors.ErrNoApplicablePolicy
}

type fakeLedger struct {
	deductFn  func(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error
	restoreFn func(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error
}

func (f *fakeLedger) Deduct(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error {
	if f.deductFn != nil {
		return f.deductFn(ctx, tx, companyID, memberID, typeCode, year, days)
	}
	return nil
}

func (f *fakeLedger) Restore(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error {
	if f.restoreFn != nil {
		return f.restoreFn(ctx, tx, companyID, memberID, typeCode, year, days)
	}
	return nil
}

type fakeProjector struct {
	applyFn func(ctx context.Context, tx *sql.Tx, p attendance.Projection) error
}

func (f *fakeProjector) Apply(ctx context.Context, tx *sql.Tx, p attendance.Projection) error {
	if f.applyFn != nil {
		return f.applyFn(ctx, tx, p)
	}
	return nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func (f *fakeOutboxRepository) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type requestServiceDeps struct {
	sqlMock   sqlmock.Sqlmock
	repo      *fakeRequestRepository
	resolver  *fakeResolver
	ledger    *fakeLedger
	projector *fakeProjector
	outbox    *fakeOutboxRepository
	service   request.Service
}

func setupRequestServiceTest(t *testing.T) *requestServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &requestServiceDeps{
		sqlMock:   sqlMock,
		repo:      &fakeRequestRepository{},
		resolver:  &fakeResolver{},
		ledger:    &fakeLedger{},
		projector: &fakeProjector{},
		outbox:    &fakeOutboxRepository{},
	}
	deps.service = request.NewService(db, deps.repo, deps.resolver, deps.ledger, deps.projector, deps.outbox)
	return deps
}

func annualLeavePolicy() *policy.Policy {
	return &policy.Policy{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		TypeCode:    policy.TypeAnnualLeave,
		Name:        "Standard annual leave",
		RuleDetails: `{"leaveRule": {"defaultDays": 10}}`,
		IsActive:    true,
	}
}

func businessTripPolicy() *policy.Policy {
	return &policy.Policy{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		TypeCode:  policy.TypeBusinessTrip,
		Name:      "Business trips",
		IsActive:  true,
	}
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	memberID := uuid.New().String()

	t.Run("three day leave deducts three days and stages the outbox event", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		p := annualLeavePolicy()
		deps.resolver.resolveFn = func(ctx context.Context, target policy.ResolveTarget, tc policy.PolicyTypeCode, d time.Time) (*policy.Policy, error) {
			assert.Equal(t, policy.TypeAnnualLeave, tc)
			return p, nil
		}

		var deducted decimal.Decimal
		deps.ledger.deductFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, memberID, mid)
			assert.Equal(t, 2026, year)
			deducted = days
			return nil
		}

		var created *request.Request
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			created = r
			return nil
		}

		var staged *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			staged = &event
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "ANNUAL_LEAVE",
			Unit:     "DAY",
			StartAt:  "2026-03-02T00:00:00Z",
			EndAt:    "2026-03-04T00:00:00Z",
			Reason:   "Family trip",
		})
		assert.NoError(t, err)

		assert.True(t, deducted.Equal(decimal.NewFromInt(3)), "deducted = %s", deducted)
		if assert.NotNil(t, created) {
			assert.Equal(t, request.StatusPending, created.Status)
			assert.Equal(t, p.ID, created.PolicyID)
			assert.True(t, created.DeductionDays.Equal(decimal.NewFromInt(3)))
		}
		if assert.NotNil(t, staged) {
			assert.Equal(t, events.ApprovalRequestedTopic, staged.Topic)
			assert.Equal(t, "approval_requested", staged.EventType)
			assert.Equal(t, created.ID.String(), staged.AggregateID)
			assert.Equal(t, kafka.OutboxStatusPending, staged.Status)
			assert.NotEmpty(t, staged.Payload)
		}
		assert.Equal(t, string(request.StatusPending), resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insufficient balance rolls everything back", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		deps.resolver.resolveFn = func(ctx context.Context, target policy.ResolveTarget, tc policy.PolicyTypeCode, d time.Time) (*policy.Policy, error) {
			return annualLeavePolicy(), nil
		}
		deps.ledger.deductFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			return balanceerrors.ErrInsufficientBalance
		}
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			t.Fatal("the request row must not be written after a rejected deduction")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "ANNUAL_LEAVE",
			Unit:     "DAY",
			StartAt:  "2026-03-02T00:00:00Z",
			EndAt:    "2026-03-04T00:00:00Z",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("half day must stay on one date", func(t *testing.T) {
		deps := setupRequestServiceTest(t)

		_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "ANNUAL_LEAVE",
			Unit:     "HALF_DAY_AM",
			StartAt:  "2026-03-02T00:00:00Z",
			EndAt:    "2026-03-03T00:00:00Z",
		})
		assert.ErrorIs(t, err, requesterrors.ErrHalfDaySpansDays)
	})

	t.Run("hourly time off never touches the ledger", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		deps.resolver.resolveFn = func(ctx context.Context, target policy.ResolveTarget, tc policy.PolicyTypeCode, d time.Time) (*policy.Policy, error) {
			return annualLeavePolicy(), nil
		}
		deps.ledger.deductFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			t.Fatal("time off requests must not be deducted")
			return nil
		}

		var created *request.Request
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			created = r
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "ANNUAL_LEAVE",
			Unit:     "TIME_OFF",
			StartAt:  "2026-03-02T10:00:00Z",
			EndAt:    "2026-03-02T12:00:00Z",
		})
		assert.NoError(t, err)
		if assert.NotNil(t, created) {
			assert.True(t, created.DeductionDays.IsZero())
		}
	})

	t.Run("non deductible type skips the ledger", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		deps.resolver.resolveFn = func(ctx context.Context, target policy.ResolveTarget, tc policy.PolicyTypeCode, d time.Time) (*policy.Policy, error) {
			return businessTripPolicy(), nil
		}
		deps.ledger.deductFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			t.Fatal("business trips must not be deducted")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "BUSINESS_TRIP",
			Unit:     "DAY",
			StartAt:  "2026-03-02T00:00:00Z",
			EndAt:    "2026-03-04T00:00:00Z",
		})
		assert.NoError(t, err)
	})

	t.Run("no applicable policy", func(t *testing.T) {
		deps := setupRequestServiceTest(t)

		_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "ANNUAL_LEAVE",
			Unit:     "DAY",
			StartAt:  "2026-03-02T00:00:00Z",
			EndAt:    "2026-03-04T00:00:00Z",
		})
		assert.ErrorIs(t, err, policyerrors.ErrNoApplicablePolicy)
	})

	t.Run("end before start", func(t *testing.T) {
		deps := setupRequestServiceTest(t)

		_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
			TypeCode: "ANNUAL_LEAVE",
			Unit:     "DAY",
			StartAt:  "2026-03-04T00:00:00Z",
			EndAt:    "2026-03-02T00:00:00Z",
		})
		assert.ErrorIs(t, err, requesterrors.ErrInvalidPeriod)
	})
}

func pendingRequest(companyID, memberID string) *request.Request {
	return &request.Request{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		MemberID:      uuid.MustParse(memberID),
		PolicyID:      uuid.New(),
		TypeCode:      policy.TypeAnnualLeave,
		Unit:          request.UnitDay,
		StartAt:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndAt:         time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		DeductionDays: decimal.NewFromInt(3),
		Status:        request.StatusPending,
	}
}

func TestRequestService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	memberID := uuid.New().String()

	t.Run("pending request cancels and restores the balance", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			assert.Equal(t, row.ID.String(), id)
			return row, nil
		}

		var newStatus request.RequestStatus
		deps.repo.updateStatusFn = func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
			newStatus = status
			return nil
		}

		var restored decimal.Decimal
		deps.ledger.restoreFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			assert.Equal(t, 2026, year)
			restored = days
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Cancel(ctx, companyID, memberID, row.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, request.StatusCanceled, newStatus)
		assert.True(t, restored.Equal(decimal.NewFromInt(3)), "restored = %s", restored)
		assert.Equal(t, string(request.StatusCanceled), resp.Status)
	})

	t.Run("only the requester may cancel", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, uuid.New().String())

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Cancel(ctx, companyID, memberID, row.ID.String())
		assert.ErrorIs(t, err, requesterrors.ErrNotRequester)
	})

	t.Run("approved request is no longer cancelable", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)
		row.Status = request.StatusApproved

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Cancel(ctx, companyID, memberID, row.ID.String())
		assert.ErrorIs(t, err, requesterrors.ErrNotCancelable)
	})

	t.Run("unknown request", func(t *testing.T) {
		deps := setupRequestServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Cancel(ctx, companyID, memberID, uuid.New().String())
		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
	})

	t.Run("wrong company sees nothing", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(uuid.New().String(), memberID)

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Cancel(ctx, companyID, memberID, row.ID.String())
		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
	})
}

func TestRequestService_ApplyDecision(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	memberID := uuid.New().String()

	t.Run("approval projects the leave into attendance", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}

		var newStatus request.RequestStatus
		var gotApprovalID *uuid.UUID
		deps.repo.updateStatusFn = func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
			newStatus = status
			gotApprovalID = approvalID
			assert.NotNil(t, completedAt)
			return nil
		}

		var projected *attendance.Projection
		deps.projector.applyFn = func(ctx context.Context, tx *sql.Tx, p attendance.Projection) error {
			projected = &p
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		approvalID := uuid.New()
		err := deps.service.ApplyDecision(ctx, events.ApprovalDecisionEvent{
			RequestID:   row.ID.String(),
			ApprovalID:  approvalID.String(),
			State:       events.DecisionApproved,
			CompletedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		})
		assert.NoError(t, err)
		assert.Equal(t, request.StatusApproved, newStatus)
		if assert.NotNil(t, gotApprovalID) {
			assert.Equal(t, approvalID, *gotApprovalID)
		}
		if assert.NotNil(t, projected) {
			assert.Equal(t, memberID, projected.MemberID)
			assert.Equal(t, policy.TypeAnnualLeave, projected.TypeCode)
			assert.Equal(t, string(request.UnitDay), projected.Unit)
			assert.Equal(t, row.StartAt, projected.StartAt)
			assert.Equal(t, row.EndAt, projected.EndAt)
		}
	})

	t.Run("rejection restores the deducted balance", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}

		var newStatus request.RequestStatus
		deps.repo.updateStatusFn = func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
			newStatus = status
			return nil
		}

		var restored decimal.Decimal
		deps.ledger.restoreFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			restored = days
			return nil
		}
		deps.projector.applyFn = func(ctx context.Context, tx *sql.Tx, p attendance.Projection) error {
			t.Fatal("a rejected request must not be projected")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		err := deps.service.ApplyDecision(ctx, events.ApprovalDecisionEvent{
			RequestID: row.ID.String(),
			State:     events.DecisionRejected,
		})
		assert.NoError(t, err)
		assert.Equal(t, request.StatusRejected, newStatus)
		assert.True(t, restored.Equal(decimal.NewFromInt(3)), "restored = %s", restored)
	})

	t.Run("discarded approval cancels the request", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}

		var newStatus request.RequestStatus
		deps.repo.updateStatusFn = func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
			newStatus = status
			return nil
		}

		restoreCalled := false
		deps.ledger.restoreFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			restoreCalled = true
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		err := deps.service.ApplyDecision(ctx, events.ApprovalDecisionEvent{
			RequestID: row.ID.String(),
			State:     events.DecisionDiscarded,
		})
		assert.NoError(t, err)
		assert.Equal(t, request.StatusCanceled, newStatus)
		assert.True(t, restoreCalled)
	})

	t.Run("decision for unknown request is ignored", func(t *testing.T) {
		deps := setupRequestServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		err := deps.service.ApplyDecision(ctx, events.ApprovalDecisionEvent{
			RequestID: uuid.New().String(),
			State:     events.DecisionApproved,
		})
		assert.NoError(t, err)
	})

	t.Run("replay against a terminal request is ignored", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)
		row.Status = request.StatusApproved

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}
		deps.repo.updateStatusFn = func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
			t.Fatal("a terminal request must not transition again")
			return nil
		}
		deps.ledger.restoreFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, tc policy.PolicyTypeCode, year int, days decimal.Decimal) error {
			t.Fatal("a replay must not touch the balance twice")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		err := deps.service.ApplyDecision(ctx, events.ApprovalDecisionEvent{
			RequestID: row.ID.String(),
			State:     events.DecisionRejected,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown decision state is ignored", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		row := pendingRequest(companyID, memberID)

		deps.repo.findForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) {
			return row, nil
		}
		deps.repo.updateStatusFn = func(ctx context.Context, id string, status request.RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
			t.Fatal("an unknown state must not transition the request")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		err := deps.service.ApplyDecision(ctx, events.ApprovalDecisionEvent{
			RequestID: row.ID.String(),
			State:     "ESCALATED",
		})
		assert.NoError(t, err)
	})
}

func TestDeductionDaysThroughCreate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	memberID := uuid.New().String()

	cases := []struct {
		name    string
		unit    string
		startAt string
		endAt   string
		want    decimal.Decimal
	}{
		{"single day", "DAY", "2026-03-02T00:00:00Z", "2026-03-02T00:00:00Z", decimal.NewFromInt(1)},
		{"inclusive span", "DAY", "2026-03-02T00:00:00Z", "2026-03-06T00:00:00Z", decimal.NewFromInt(5)},
		{"morning half", "HALF_DAY_AM", "2026-03-02T00:00:00Z", "2026-03-02T00:00:00Z", decimal.NewFromFloat(0.5)},
		{"afternoon half", "HALF_DAY_PM", "2026-03-02T00:00:00Z", "2026-03-02T00:00:00Z", decimal.NewFromFloat(0.5)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := setupRequestServiceTest(t)
			deps.resolver.resolveFn = func(ctx context.Context, target policy.ResolveTarget, typeCode policy.PolicyTypeCode, d time.Time) (*policy.Policy, error) {
				return annualLeavePolicy(), nil
			}

			var deducted decimal.Decimal
			deps.ledger.deductFn = func(ctx context.Context, tx *sql.Tx, cid, mid string, code policy.PolicyTypeCode, year int, days decimal.Decimal) error {
				deducted = days
				return nil
			}

			deps.sqlMock.ExpectBegin()
			deps.sqlMock.ExpectCommit()

			_, err := deps.service.Create(ctx, companyID, memberID, request.CreateRequest{
				TypeCode: "ANNUAL_LEAVE",
				Unit:     tc.unit,
				StartAt:  tc.startAt,
				EndAt:    tc.endAt,
			})
			assert.NoError(t, err)
			assert.True(t, deducted.Equal(tc.want), "deducted = %s, want %s", deducted, tc.want)
		})
	}
}
