package balance

import (
	"time"

	"go-workforce/internal/policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberBalance is the ledger row for one member, leave type and year.
// remaining == total_granted - total_used holds after every mutation.
type MemberBalance struct {
	ID        uuid.UUID             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID             `gorm:"type:uuid;not null;index:idx_member_balances_company"`
	MemberID  uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:uq_member_balances_member_type_year"`
	TypeCode  policy.PolicyTypeCode `gorm:"type:varchar(10);not null;uniqueIndex:uq_member_balances_member_type_year"`
	Year      int                   `gorm:"type:int;not null;uniqueIndex:uq_member_balances_member_type_year"`

	TotalGranted decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	TotalUsed    decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Remaining    decimal.Decimal `gorm:"type:numeric(5,1);not null"`

	ExpirationDate *time.Time `gorm:"type:date"`
	IsPaid         bool       `gorm:"not null;default:true"`
	IsUsable       bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MemberBalance) TableName() string {
	return "member_balances"
}
