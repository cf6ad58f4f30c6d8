package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"
	"go-workforce/internal/policy"
	policyerrors "go-workforce/internal/policy/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, memberID string) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, memberID string) (AttendanceResponse, error)
	GetMonth(ctx context.Context, companyID, memberID string, year int, month time.Month) ([]AttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver policy.Resolver
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(db *sql.DB, repo Repository, resolver policy.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, resolver: resolver, logger: l, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) ClockIn(ctx context.Context, companyID, memberID string) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidMemberID
	}
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidMemberID
	}

	now := s.now()
	today := dateOnly(now)

	isLate, lateMinutes := s.lateness(ctx, companyID, memberID, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.FindByMemberAndDate(ctx, companyID, memberID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	var row *DailyAttendance
	if existing != nil {
		if existing.FirstClockIn != nil {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}
		// The day row already exists from a leave projection; record the
		// clock-in without touching its status.
		existing.FirstClockIn = &now
		existing.IsLate = isLate
		existing.LateMinutes = lateMinutes
		if err := qtx.Update(ctx, existing); err != nil {
			return AttendanceResponse{}, err
		}
		row = existing
	} else {
		row = &DailyAttendance{
			ID:           uuid.New(),
			CompanyID:    companyUUID,
			MemberID:     memberUUID,
			Date:         today,
			Status:       StatusNormalWork,
			FirstClockIn: &now,
			IsLate:       isLate,
			LateMinutes:  lateMinutes,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("member_id", memberID),
		zap.Bool("is_late", isLate),
		zap.Int("late_minutes", lateMinutes),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, memberID string) (AttendanceResponse, error) {
	now := s.now()
	today := dateOnly(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByMemberAndDate(ctx, companyID, memberID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if row.FirstClockIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
	}
	if row.LastClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	worked, overtime, breaks := s.workedMinutes(ctx, companyID, memberID, *row.FirstClockIn, now)
	row.LastClockOut = &now
	row.WorkedMinutes = worked
	row.OvertimeMinutes = overtime
	row.BreakMinutes = breaks

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded",
		zap.String("member_id", memberID),
		zap.Int("worked_minutes", worked),
		zap.Int("overtime_minutes", overtime),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetMonth(ctx context.Context, companyID, memberID string, year int, month time.Month) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(memberID); err != nil {
		return nil, attendanceerrors.ErrInvalidMemberID
	}
	rows, err := s.repo.FindMonthByMember(ctx, companyID, memberID, year, month)
	if err != nil {
		return nil, err
	}
	resp := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

// lateness evaluates the clock-in against the member's standard-work
// policy. Members without one are never marked late.
func (s *service) lateness(ctx context.Context, companyID, memberID string, at time.Time) (bool, int) {
	rules := s.workRules(ctx, companyID, memberID, at)
	if rules == nil || rules.WorkTimeRule == nil {
		return false, 0
	}
	if rules.WorkTimeRule.Type != policy.WorkTimeFixed {
		return false, 0
	}

	start, err := policy.ParseClock(rules.WorkTimeRule.WorkStartTime)
	if err != nil {
		return false, 0
	}
	grace := 0
	if rules.LatenessRule != nil {
		grace = rules.LatenessRule.GraceMinutes
	}

	deadline := dateOnly(at).Add(start + time.Duration(grace)*time.Minute)
	if !at.After(deadline) {
		return false, 0
	}
	return true, int(at.Sub(dateOnly(at).Add(start)).Minutes())
}

// workedMinutes splits the presence span into worked, overtime and break
// minutes using the standard-work policy. Without one, the raw span
// counts as worked time.
func (s *service) workedMinutes(ctx context.Context, companyID, memberID string, clockIn, clockOut time.Time) (worked, overtime, breaks int) {
	span := int(clockOut.Sub(clockIn).Minutes())
	if span < 0 {
		span = 0
	}

	rules := s.workRules(ctx, companyID, memberID, clockOut)
	if rules == nil {
		return span, 0, 0
	}

	if rules.BreakRule != nil {
		switch {
		case rules.BreakRule.MandatoryBreakMinutes > 0:
			breaks = rules.BreakRule.MandatoryBreakMinutes
		case rules.BreakRule.DefaultBreakMinutesFor8Hours > 0 && span >= 8*60:
			breaks = rules.BreakRule.DefaultBreakMinutesFor8Hours
		}
		if breaks > span {
			breaks = span
		}
	}

	worked = span - breaks
	if rules.WorkTimeRule != nil && rules.WorkTimeRule.FixedWorkMinutes > 0 && worked > rules.WorkTimeRule.FixedWorkMinutes {
		overtime = worked - rules.WorkTimeRule.FixedWorkMinutes
	}
	return worked, overtime, breaks
}

func (s *service) workRules(ctx context.Context, companyID, memberID string, at time.Time) *policy.RuleSet {
	target := policy.ResolveTarget{MemberID: memberID, CompanyID: companyID}
	p, err := s.resolver.Resolve(ctx, target, policy.TypeStandardWork, at)
	if err != nil {
		if !errors.Is(err, policyerrors.ErrNoApplicablePolicy) {
			s.logger.Warn("standard work policy lookup failed", zap.String("member_id", memberID), zap.Error(err))
		}
		return nil
	}
	rules, err := p.Rules()
	if err != nil {
		s.logger.Warn("standard work rule document unreadable", zap.String("policy_id", p.ID.String()), zap.Error(err))
		return nil
	}
	return rules
}
