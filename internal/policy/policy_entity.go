package policy

import (
	"time"

	"github.com/google/uuid"
)

// PolicyType is company-scoped seed data describing a kind of policy.
// Created once per company; only display fields change afterwards.
type PolicyType struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_policy_types_company"`
	TypeCode          PolicyTypeCode `gorm:"type:varchar(10);not null;index:idx_policy_types_company"`
	TypeName          string         `gorm:"type:varchar(100);not null"`
	BalanceDeductible bool           `gorm:"not null;default:false"`
	CategoryCode      string         `gorm:"type:varchar(30);not null"`
	Priority          int            `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PolicyType) TableName() string {
	return "policy_types"
}

// Policy is a named, dated rule set for one policy type. Once assignments
// exist it is superseded by a new row, never mutated in place.
type Policy struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID      `gorm:"type:uuid;not null;index:idx_policies_company_type"`
	TypeCode  PolicyTypeCode `gorm:"type:varchar(10);not null;index:idx_policies_company_type"`
	Name      string         `gorm:"type:varchar(200);not null"`

	// Rule document, stored verbatim. Parsed on demand via Rules().
	RuleDetails string `gorm:"type:json"`

	IsPaid        bool       `gorm:"not null;default:true"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`
	IsActive      bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Policy) TableName() string {
	return "policies"
}

// Rules parses the stored rule document. The parse is lenient: unknown
// sections are ignored so older binaries can read newer documents.
func (p *Policy) Rules() (*RuleSet, error) {
	return ParseRuleSet([]byte(p.RuleDetails))
}

// EffectiveOn reports whether the policy window covers the given date.
// A nil EffectiveTo means open-ended.
func (p *Policy) EffectiveOn(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	if d.Before(p.EffectiveFrom.Truncate(24 * time.Hour)) {
		return false
	}
	if p.EffectiveTo != nil && d.After(p.EffectiveTo.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// PolicyAssignment binds a policy to a company, organization, position or
// member. Several assignments may cover the same member through different
// scopes; the resolver picks exactly one winner per (target, type, date).
type PolicyAssignment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_policy_assignments_target"`
	ScopeType PolicyScopeType `gorm:"type:varchar(10);not null"`
	IsActive  bool            `gorm:"not null;default:true"`

	AssignedBy uuid.UUID  `gorm:"type:uuid;not null"`
	AssignedAt time.Time  `gorm:"not null"`
	RevokedAt  *time.Time `gorm:""`

	Policy *Policy `gorm:"foreignKey:PolicyID;references:ID"`
}

func (PolicyAssignment) TableName() string {
	return "policy_assignments"
}
