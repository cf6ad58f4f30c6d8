package attendance

import (
	"time"

	"github.com/google/uuid"
)

// DailyAttendance is the one-row-per-member-per-day projection. Rows are
// created by whichever event touches the day first and are never deleted.
type DailyAttendance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_attendance_company"`
	MemberID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_daily_attendance_member_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_daily_attendance_member_date"`

	Status AttendanceStatus `gorm:"type:varchar(10);not null"`

	FirstClockIn *time.Time `gorm:"type:timestamptz"`
	LastClockOut *time.Time `gorm:"type:timestamptz"`

	WorkedMinutes   int `gorm:"type:int;not null;default:0"`
	OvertimeMinutes int `gorm:"type:int;not null;default:0"`
	BreakMinutes    int `gorm:"type:int;not null;default:0"`

	IsLate      bool `gorm:"not null;default:false"`
	LateMinutes int  `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DailyAttendance) TableName() string {
	return "daily_attendance"
}
