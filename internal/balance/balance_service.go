package balance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	balanceerrors "go-workforce/internal/balance/errors"
	"go-workforce/internal/policy"
	policyerrors "go-workforce/internal/policy/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetMyBalances(ctx context.Context, companyID, memberID string) ([]BalanceResponse, error)
	// GrantInitial seeds the annual-leave row for a newly created member.
	// Safe to replay; a duplicate grant is absorbed, not an error.
	GrantInitial(ctx context.Context, companyID, memberID string, hireDate time.Time) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver policy.Resolver
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver policy.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, resolver: resolver, logger: l}
}

func (s *service) GetMyBalances(ctx context.Context, companyID, memberID string) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(memberID); err != nil {
		return nil, balanceerrors.ErrInvalidMemberID
	}
	balances, err := s.repo.FindAllByMember(ctx, companyID, memberID)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapBalanceToResponse(b)
	}
	return resp, nil
}

func (s *service) GrantInitial(ctx context.Context, companyID, memberID string, hireDate time.Time) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return balanceerrors.ErrInvalidMemberID
	}
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return balanceerrors.ErrInvalidMemberID
	}

	now := time.Now().UTC()
	target := policy.ResolveTarget{MemberID: memberID, CompanyID: companyID}
	p, err := s.resolver.Resolve(ctx, target, policy.TypeAnnualLeave, now)
	if err != nil {
		if errors.Is(err, policyerrors.ErrNoApplicablePolicy) {
			s.logger.Warn("no annual leave policy for new member, skipping grant",
				zap.String("member_id", memberID),
				zap.String("company_id", companyID),
			)
			return nil
		}
		return err
	}
	rules, err := p.Rules()
	if err != nil {
		return err
	}
	leaveRule, err := rules.Leave()
	if err != nil {
		return err
	}

	granted := initialGrantDays(leaveRule, hireDate, now)
	expiration := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("grant initial begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	b := &MemberBalance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		MemberID:       memberUUID,
		TypeCode:       policy.TypeAnnualLeave,
		Year:           now.Year(),
		TotalGranted:   granted,
		TotalUsed:      decimal.Zero,
		Remaining:      granted,
		ExpirationDate: &expiration,
		IsPaid:         p.IsPaid,
		IsUsable:       true,
	}
	if err := s.repo.WithTx(tx).Create(ctx, b); err != nil {
		if IsDuplicateGrant(err) {
			s.logger.Warn("balance already granted, skipping",
				zap.String("member_id", memberID),
				zap.Int("year", now.Year()),
			)
			return nil
		}
		s.logger.Error("grant initial persist failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("grant initial commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("initial balance granted",
		zap.String("member_id", memberID),
		zap.String("company_id", companyID),
		zap.Int("year", now.Year()),
		zap.String("granted", granted.String()),
	)
	return nil
}

// initialGrantDays applies the policy's accrual rules to a hire date.
// Members inside their first year accrue per completed month of service,
// capped; everyone else gets the tier for their completed years.
func initialGrantDays(rule *policy.LeaveRule, hireDate, now time.Time) decimal.Decimal {
	years := completedYears(hireDate, now)
	if years < 1 && rule.FirstYearMonthlyAccrualDays != nil {
		months := completedMonths(hireDate, now)
		granted := decimal.NewFromFloat(*rule.FirstYearMonthlyAccrualDays).Mul(decimal.NewFromInt(int64(months)))
		if rule.FirstYearMaxAccrual != nil {
			maxAccrual := decimal.NewFromInt(int64(*rule.FirstYearMaxAccrual))
			if granted.GreaterThan(maxAccrual) {
				granted = maxAccrual
			}
		}
		return granted
	}
	return decimal.NewFromFloat(rule.GrantDaysFor(years))
}

func completedYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func completedMonths(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// IsDuplicateGrant reports whether an insert collided with the
// one-row-per-member-type-year constraint.
func IsDuplicateGrant(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_member_balances_member_type_year"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_member_balances_member_type_year")
}
