package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	policyerrors "go-workforce/internal/policy/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const resolveCacheTTL = 5 * time.Minute

func resolveCacheKey(companyID string, typeCode PolicyTypeCode, memberID string, date time.Time) string {
	return fmt.Sprintf("policies:resolved:%s:%s:%s:%s", companyID, typeCode.CodeValue(), memberID, date.Format("2006-01-02"))
}

// ResolveTarget carries every identifier a member can be addressed by.
// OrganizationIDs is ordered nearest-first (own org, then its parents).
type ResolveTarget struct {
	MemberID         string
	MemberPositionID string
	OrganizationIDs  []string
	CompanyID        string
}

//go:generate mockgen -source=policy_resolver.go -destination=mock/policy_resolver_mock.go -package=mock
type Resolver interface {
	// Resolve picks the single policy governing the target for the given
	// type and date, honoring scope specificity
	// MEMBER > MEMBER_POSITION > ORGANIZATION > COMPANY.
	Resolve(ctx context.Context, target ResolveTarget, typeCode PolicyTypeCode, date time.Time) (*Policy, error)
}

type resolver struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewResolver(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("policy.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.resolver")
	}
	return &resolver{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

type scopedTarget struct {
	id    string
	scope PolicyScopeType
}

func (r *resolver) Resolve(ctx context.Context, target ResolveTarget, typeCode PolicyTypeCode, date time.Time) (*Policy, error) {
	if !typeCode.Valid() {
		return nil, policyerrors.ErrUnknownPolicyType
	}

	cacheKey := resolveCacheKey(target.CompanyID, typeCode, target.MemberID, date)
	if r.rdb != nil {
		if cached, err := r.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var p Policy
			if json.Unmarshal([]byte(cached), &p) == nil {
				return &p, nil
			}
		}
	}

	// Collapse concurrent misses for the same member onto one DB round trip.
	v, err, _ := r.sf.Do(cacheKey, func() (interface{}, error) {
		p, err := r.resolveFromStore(ctx, target, typeCode, date)
		if err != nil {
			return nil, err
		}
		if r.rdb != nil {
			if raw, err := json.Marshal(p); err == nil {
				r.rdb.Set(ctx, cacheKey, raw, resolveCacheTTL)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Policy), nil
}

func (r *resolver) resolveFromStore(ctx context.Context, target ResolveTarget, typeCode PolicyTypeCode, date time.Time) (*Policy, error) {
	candidates := make([]scopedTarget, 0, 3+len(target.OrganizationIDs))
	if target.MemberID != "" {
		candidates = append(candidates, scopedTarget{target.MemberID, ScopeMember})
	}
	if target.MemberPositionID != "" {
		candidates = append(candidates, scopedTarget{target.MemberPositionID, ScopeMemberPosition})
	}
	for _, orgID := range target.OrganizationIDs {
		candidates = append(candidates, scopedTarget{orgID, ScopeOrganization})
	}
	candidates = append(candidates, scopedTarget{target.CompanyID, ScopeCompany})

	targetIDs := make([]string, len(candidates))
	for i, c := range candidates {
		targetIDs[i] = c.id
	}

	assignments, err := r.repo.FindActiveAssignments(ctx, target.CompanyID, targetIDs, typeCode, date)
	if err != nil {
		return nil, err
	}

	// Walk candidates in specificity order; the first with any matching
	// assignment wins. Equal-specificity duplicates on one target are broken
	// deterministically: newest assignment first, then lowest id.
	for _, cand := range candidates {
		var matches []PolicyAssignment
		for _, a := range assignments {
			if a.ScopeType == cand.scope && a.TargetID.String() == cand.id && a.Policy != nil {
				matches = append(matches, a)
			}
		}
		if len(matches) == 0 {
			continue
		}
		sort.SliceStable(matches, func(i, j int) bool {
			if !matches[i].AssignedAt.Equal(matches[j].AssignedAt) {
				return matches[i].AssignedAt.After(matches[j].AssignedAt)
			}
			return matches[i].ID.String() < matches[j].ID.String()
		})
		winner := matches[0]
		r.logger.Debug("policy resolved",
			zap.String("member_id", target.MemberID),
			zap.String("type_code", string(typeCode)),
			zap.String("policy_id", winner.PolicyID.String()),
			zap.String("scope_type", string(winner.ScopeType)),
		)
		return winner.Policy, nil
	}

	r.logger.Warn("no applicable policy",
		zap.String("member_id", target.MemberID),
		zap.String("company_id", target.CompanyID),
		zap.String("type_code", string(typeCode)),
	)
	return nil, policyerrors.ErrNoApplicablePolicy
}
