package balance

import (
	"context"
	"database/sql"

	"go-workforce/internal/policy"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *MemberBalance) error
	FindAllByMember(ctx context.Context, companyID, memberID string) ([]MemberBalance, error)
	// FindForUpdate locks the ledger row when running inside a transaction.
	FindForUpdate(ctx context.Context, companyID, memberID string, typeCode policy.PolicyTypeCode, year int) (*MemberBalance, error)
	UpdateTotals(ctx context.Context, id string, used, remaining decimal.Decimal) error
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

func (r *repository) Create(ctx context.Context, b *MemberBalance) error {
	if r.tx != nil {
		query := `
        INSERT INTO member_balances (
            id, company_id, member_id, type_code, year,
            total_granted, total_used, remaining,
            expiration_date, is_paid, is_usable, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
    `
		_, err := r.tx.ExecContext(
			ctx, query,
			b.ID, b.CompanyID, b.MemberID, b.TypeCode, b.Year,
			b.TotalGranted, b.TotalUsed, b.Remaining,
			b.ExpirationDate, b.IsPaid, b.IsUsable,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindAllByMember(ctx context.Context, companyID, memberID string) ([]MemberBalance, error) {
	var balances []MemberBalance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("member_id = ?", memberID).
		Order("year DESC, type_code ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindForUpdate(ctx context.Context, companyID, memberID string, typeCode policy.PolicyTypeCode, year int) (*MemberBalance, error) {
	if r.tx == nil {
		var b MemberBalance
		err := r.db.WithContext(ctx).
			Where("company_id = ?", companyID).
			Where("member_id = ?", memberID).
			Where("type_code = ?", typeCode).
			First(&b, "year = ?", year).Error
		if err != nil {
			return nil, err
		}
		return &b, nil
	}

	query := `
SELECT
	id::text,
	total_granted,
	total_used,
	remaining,
	is_usable
FROM member_balances
WHERE company_id = $1
	AND member_id = $2
	AND type_code = $3
	AND year = $4
FOR UPDATE
`
	var b MemberBalance
	err := r.tx.QueryRowContext(ctx, query, companyID, memberID, typeCode, year).Scan(
		&b.ID,
		&b.TotalGranted,
		&b.TotalUsed,
		&b.Remaining,
		&b.IsUsable,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) UpdateTotals(ctx context.Context, id string, used, remaining decimal.Decimal) error {
	if r.tx != nil {
		query := `
UPDATE member_balances
SET
	total_used = $2,
	remaining = $3,
	updated_at = NOW()
WHERE id = $1
`
		_, err := r.tx.ExecContext(ctx, query, id, used, remaining)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&MemberBalance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_used": used,
			"remaining":  remaining,
		}).Error
}
