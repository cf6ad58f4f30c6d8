package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *DailyAttendance) error
	FindByMemberAndDate(ctx context.Context, companyID, memberID string, date time.Time) (*DailyAttendance, error)
	FindMonthByMember(ctx context.Context, companyID, memberID string, year int, month time.Month) ([]DailyAttendance, error)
	Update(ctx context.Context, a *DailyAttendance) error
	// UpsertStatus writes the day's status without touching clock fields.
	// Replaying the same projection is a no-op.
	UpsertStatus(ctx context.Context, companyID, memberID string, date time.Time, status AttendanceStatus) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, a *DailyAttendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByMemberAndDate(ctx context.Context, companyID, memberID string, date time.Time) (*DailyAttendance, error) {
	var a DailyAttendance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("member_id = ?", memberID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindMonthByMember(ctx context.Context, companyID, memberID string, year int, month time.Month) ([]DailyAttendance, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []DailyAttendance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("member_id = ?", memberID).
		Where("date >= ? AND date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *DailyAttendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) UpsertStatus(ctx context.Context, companyID, memberID string, date time.Time, status AttendanceStatus) error {
	query := `
INSERT INTO daily_attendance (id, company_id, member_id, date, status, created_at, updated_at)
VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
ON CONFLICT (member_id, date)
DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, companyID, memberID, date.Format("2006-01-02"), status)
		return err
	}
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO daily_attendance (id, company_id, member_id, date, status, created_at, updated_at) "+
			"VALUES (gen_random_uuid(), ?, ?, ?, ?, NOW(), NOW()) "+
			"ON CONFLICT (member_id, date) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()",
		companyID, memberID, date.Format("2006-01-02"), status,
	).Error
}
