package request

import (
	"time"

	"go-workforce/internal/policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request is one leave or work-exception request flowing through the
// approval pipeline. DeductionDays is fixed at creation so a later policy
// change can never skew the compensating restore.
type Request struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_company_status"`
	MemberID  uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_member"`
	PolicyID  uuid.UUID `gorm:"type:uuid;not null"`

	TypeCode   policy.PolicyTypeCode `gorm:"type:varchar(10);not null"`
	ApprovalID *uuid.UUID            `gorm:"type:uuid"`

	Unit    RequestUnit `gorm:"type:varchar(10);not null"`
	StartAt time.Time   `gorm:"not null"`
	EndAt   time.Time   `gorm:"not null"`
	Reason  string      `gorm:"type:text"`

	DeductionDays decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Status        RequestStatus   `gorm:"type:varchar(10);not null;index:idx_requests_company_status"`
	CompletedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Request) TableName() string {
	return "workforce_requests"
}
