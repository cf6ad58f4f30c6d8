package request

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error)
	FindAllByMember(ctx context.Context, companyID, memberID string) ([]Request, error)
	// FindForUpdate locks the request row when running inside a transaction.
	FindForUpdate(ctx context.Context, id string) (*Request, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error
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

func (r *repository) Create(ctx context.Context, req *Request) error {
	if r.tx != nil {
		query := `
        INSERT INTO workforce_requests (
            id, company_id, member_id, policy_id, type_code,
            unit, start_at, end_at, reason, deduction_days, status,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
    `
		_, err := r.tx.ExecContext(
			ctx, query,
			req.ID, req.CompanyID, req.MemberID, req.PolicyID, req.TypeCode,
			req.Unit, req.StartAt, req.EndAt, req.Reason, req.DeductionDays, req.Status,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByMember(ctx context.Context, companyID, memberID string) ([]Request, error) {
	var requests []Request
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindForUpdate(ctx context.Context, id string) (*Request, error) {
	if r.tx == nil {
		var req Request
		err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &req, nil
	}

	query := `
SELECT
	id::text,
	company_id::text,
	member_id::text,
	policy_id::text,
	type_code,
	unit,
	start_at,
	end_at,
	deduction_days,
	status
FROM workforce_requests
WHERE id = $1
FOR UPDATE
`
	var req Request
	err := r.tx.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.CompanyID,
		&req.MemberID,
		&req.PolicyID,
		&req.TypeCode,
		&req.Unit,
		&req.StartAt,
		&req.EndAt,
		&req.DeductionDays,
		&req.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status RequestStatus, approvalID *uuid.UUID, completedAt *time.Time) error {
	if r.tx != nil {
		query := `
UPDATE workforce_requests
SET
	status = $2,
	approval_id = COALESCE($3, approval_id),
	completed_at = COALESCE($4, completed_at),
	updated_at = NOW()
WHERE id = $1
`
		_, err := r.tx.ExecContext(ctx, query, id, status, approvalID, completedAt)
		return err
	}

	updates := map[string]interface{}{"status": status}
	if approvalID != nil {
		updates["approval_id"] = *approvalID
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return r.db.WithContext(ctx).
		Model(&Request{}).
		Where("id = ?", id).
		Updates(updates).Error
}
