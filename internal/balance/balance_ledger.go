package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "go-workforce/internal/balance/errors"
	"go-workforce/internal/policy"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_ledger.go -destination=mock/balance_ledger_mock.go -package=mock

// Ledger mutates leave balances inside the caller's transaction, so a
// request transition and its deduction commit or roll back together.
type Ledger interface {
	Deduct(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error
	Restore(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, logger: l}
}

func (l *ledger) Deduct(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error {
	if !days.IsPositive() {
		return balanceerrors.ErrInvalidDays
	}

	qtx := l.repo.WithTx(tx)
	b, err := qtx.FindForUpdate(ctx, companyID, memberID, typeCode, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return balanceerrors.ErrBalanceNotFound
		}
		return err
	}
	if !b.IsUsable {
		return balanceerrors.ErrBalanceNotUsable
	}
	if b.Remaining.LessThan(days) {
		l.logger.Warn("balance deduction rejected",
			zap.String("member_id", memberID),
			zap.String("type_code", string(typeCode)),
			zap.String("remaining", b.Remaining.String()),
			zap.String("requested", days.String()),
		)
		return balanceerrors.ErrInsufficientBalance
	}

	newUsed := b.TotalUsed.Add(days)
	newRemaining := b.Remaining.Sub(days)
	if err := qtx.UpdateTotals(ctx, b.ID.String(), newUsed, newRemaining); err != nil {
		return err
	}

	l.logger.Info("balance deducted",
		zap.String("member_id", memberID),
		zap.String("type_code", string(typeCode)),
		zap.Int("year", year),
		zap.String("days", days.String()),
		zap.String("remaining", newRemaining.String()),
	)
	return nil
}

// Restore compensates a prior deduction. Both sides clamp so replaying
// the same restore never pushes used below zero or remaining above the
// grant.
func (l *ledger) Restore(ctx context.Context, tx *sql.Tx, companyID, memberID string, typeCode policy.PolicyTypeCode, year int, days decimal.Decimal) error {
	if !days.IsPositive() {
		return balanceerrors.ErrInvalidDays
	}

	qtx := l.repo.WithTx(tx)
	b, err := qtx.FindForUpdate(ctx, companyID, memberID, typeCode, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return balanceerrors.ErrBalanceNotFound
		}
		return err
	}

	newUsed := b.TotalUsed.Sub(days)
	if newUsed.IsNegative() {
		newUsed = decimal.Zero
	}
	newRemaining := b.Remaining.Add(days)
	if newRemaining.GreaterThan(b.TotalGranted) {
		newRemaining = b.TotalGranted
	}
	if err := qtx.UpdateTotals(ctx, b.ID.String(), newUsed, newRemaining); err != nil {
		return err
	}

	l.logger.Info("balance restored",
		zap.String("member_id", memberID),
		zap.String("type_code", string(typeCode)),
		zap.Int("year", year),
		zap.String("days", days.String()),
		zap.String("remaining", newRemaining.String()),
	)
	return nil
}
