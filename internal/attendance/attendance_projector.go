package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-workforce/internal/policy"

	"go.uber.org/zap"
)

// Projection describes an approved request to fold into daily rows.
// Unit carries the request-unit symbolic name (DAY, HALF_DAY_AM, ...).
type Projection struct {
	CompanyID string
	MemberID  string
	TypeCode  policy.PolicyTypeCode
	Unit      string
	StartAt   time.Time
	EndAt     time.Time
}

//go:generate mockgen -source=attendance_projector.go -destination=mock/attendance_projector_mock.go -package=mock

// Projector folds approved requests into the daily attendance table on
// the caller's transaction, so the status change and the projection
// commit together.
type Projector interface {
	Apply(ctx context.Context, tx *sql.Tx, p Projection) error
}

type projector struct {
	repo   Repository
	logger *zap.Logger
}

func NewProjector(repo Repository, logger ...*zap.Logger) Projector {
	l := zap.L().Named("attendance.projector")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.projector")
	}
	return &projector{repo: repo, logger: l}
}

func (p *projector) Apply(ctx context.Context, tx *sql.Tx, proj Projection) error {
	status, ok := statusForRequest(proj.TypeCode, proj.Unit)
	if !ok {
		p.logger.Debug("request type not projected",
			zap.String("type_code", string(proj.TypeCode)),
			zap.String("unit", proj.Unit),
		)
		return nil
	}

	qtx := p.repo.WithTx(tx)
	days := 0
	for d := dateOnly(proj.StartAt); !d.After(dateOnly(proj.EndAt)); d = d.AddDate(0, 0, 1) {
		if err := qtx.UpsertStatus(ctx, proj.CompanyID, proj.MemberID, d, status); err != nil {
			return err
		}
		days++
	}

	p.logger.Info("attendance projected",
		zap.String("member_id", proj.MemberID),
		zap.String("status", string(status)),
		zap.Int("days", days),
	)
	return nil
}

// statusForRequest maps an approved request to a day status. Hourly
// time-off and plain work-time types leave the day untouched.
func statusForRequest(typeCode policy.PolicyTypeCode, unit string) (AttendanceStatus, bool) {
	if !typeCode.AttendanceRelevant() {
		return "", false
	}
	if unit == "TIME_OFF" {
		return "", false
	}
	if typeCode == policy.TypeAnnualLeave {
		switch unit {
		case "HALF_DAY_AM":
			return StatusHalfDayAM, true
		case "HALF_DAY_PM":
			return StatusHalfDayPM, true
		default:
			return StatusAnnualLeave, true
		}
	}
	switch typeCode {
	case policy.TypeBusinessTrip:
		return StatusBusinessTrip, true
	case policy.TypeMaternityLeave:
		return StatusMaternityLeave, true
	case policy.TypePaternityLeave:
		return StatusPaternityLeave, true
	case policy.TypeChildcareLeave:
		return StatusChildcareLeave, true
	case policy.TypeFamilyCareLeave:
		return StatusFamilyCareLeave, true
	case policy.TypeMenstrualLeave:
		return StatusMenstrualLeave, true
	default:
		return "", false
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
