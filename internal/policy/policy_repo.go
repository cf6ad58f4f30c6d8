package policy

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreatePolicy(ctx context.Context, p *Policy) error
	FindPolicyByIDAndCompany(ctx context.Context, companyID, id string) (*Policy, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Policy, error)
	DeactivatePolicy(ctx context.Context, companyID, id string) error
	CreateAssignments(ctx context.Context, assignments []PolicyAssignment) error
	RevokeAssignment(ctx context.Context, companyID, assignmentID string, revokedAt time.Time) error
	// FindActiveAssignments returns active assignments for any of the given
	// targets whose policy is active, matches the type and covers the date.
	FindActiveAssignments(ctx context.Context, companyID string, targetIDs []string, typeCode PolicyTypeCode, date time.Time) ([]PolicyAssignment, error)
	FindAssignmentsByCompany(ctx context.Context, companyID string) ([]PolicyAssignment, error)
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

func (r *repository) CreatePolicy(ctx context.Context, p *Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindPolicyByIDAndCompany(ctx context.Context, companyID, id string) (*Policy, error) {
	var p Policy
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Policy, error) {
	var policies []Policy
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) DeactivatePolicy(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Model(&Policy{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *repository) CreateAssignments(ctx context.Context, assignments []PolicyAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *repository) RevokeAssignment(ctx context.Context, companyID, assignmentID string, revokedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&PolicyAssignment{}).
		Where("id = ?", assignmentID).
		Where("policy_id IN (?)", r.db.Model(&Policy{}).Select("id").Where("company_id = ?", companyID)).
		Updates(map[string]any{"is_active": false, "revoked_at": revokedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindActiveAssignments(ctx context.Context, companyID string, targetIDs []string, typeCode PolicyTypeCode, date time.Time) ([]PolicyAssignment, error) {
	var assignments []PolicyAssignment
	day := date.Truncate(24 * time.Hour)
	err := r.db.WithContext(ctx).
		Joins("Policy").
		Where("policy_assignments.is_active = ?", true).
		Where("policy_assignments.target_id IN ?", targetIDs).
		Where(`"Policy".company_id = ?`, companyID).
		Where(`"Policy".type_code = ?`, typeCode.CodeValue()).
		Where(`"Policy".is_active = ?`, true).
		Where(`"Policy".effective_from <= ?`, day).
		Where(`("Policy".effective_to IS NULL OR "Policy".effective_to >= ?)`, day).
		Order("policy_assignments.assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindAssignmentsByCompany(ctx context.Context, companyID string) ([]PolicyAssignment, error) {
	var assignments []PolicyAssignment
	err := r.db.WithContext(ctx).
		Joins("Policy").
		Where(`"Policy".company_id = ?`, companyID).
		Order("policy_assignments.assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}
