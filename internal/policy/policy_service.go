package policy

import (
	"context"
	"errors"
	"time"

	policyerrors "go-workforce/internal/policy/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=policy_service.go -destination=mock/policy_service_mock.go -package=mock
type Service interface {
	CreatePolicy(ctx context.Context, companyID string, req CreatePolicyRequest) (PolicyResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PolicyResponse, error)
	Deactivate(ctx context.Context, companyID, id string) error
	CreateAssignments(ctx context.Context, companyID, actorID string, req CreateAssignmentsRequest) ([]AssignmentResponse, error)
	RevokeAssignment(ctx context.Context, companyID, assignmentID string) error
	GetAssignments(ctx context.Context, companyID string) ([]AssignmentResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("policy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreatePolicy(ctx context.Context, companyID string, req CreatePolicyRequest) (PolicyResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PolicyResponse{}, policyerrors.ErrInvalidCompanyID
	}
	typeCode, err := PolicyTypeCodeFromValue(req.TypeCode)
	if err != nil {
		return PolicyResponse{}, policyerrors.ErrUnknownPolicyType
	}

	// Rule documents are schema-validated once, at write time. Readers stay
	// lenient so old policies keep loading after the schema grows.
	rules, err := ParseRuleSet([]byte(req.RuleDetails))
	if err != nil {
		s.logger.Warn("create policy rule parse failed", zap.Error(err))
		return PolicyResponse{}, policyerrors.ErrInvalidRuleDocument
	}
	if err := rules.Validate(); err != nil {
		s.logger.Warn("create policy rule validation failed", zap.Error(err))
		return PolicyResponse{}, policyerrors.ErrInvalidRuleDocument
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return PolicyResponse{}, policyerrors.ErrInvalidEffectiveWindow
	}
	var effectiveTo *time.Time
	if req.EffectiveTo != "" {
		to, err := time.Parse("2006-01-02", req.EffectiveTo)
		if err != nil || to.Before(effectiveFrom) {
			return PolicyResponse{}, policyerrors.ErrInvalidEffectiveWindow
		}
		effectiveTo = &to
	}

	p := &Policy{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		TypeCode:      typeCode,
		Name:          req.Name,
		RuleDetails:   req.RuleDetails,
		IsPaid:        req.IsPaid,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		IsActive:      true,
	}
	if err := s.repo.CreatePolicy(ctx, p); err != nil {
		s.logger.Error("create policy persist failed", zap.Error(err))
		return PolicyResponse{}, err
	}

	s.logger.Info("create policy success",
		zap.String("policy_id", p.ID.String()),
		zap.String("company_id", companyID),
		zap.String("type_code", string(typeCode)),
	)
	return mapPolicyToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error) {
	policies, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]PolicyResponse, len(policies))
	for i, p := range policies {
		resp[i] = mapPolicyToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PolicyResponse, error) {
	p, err := s.repo.FindPolicyByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyResponse{}, policyerrors.ErrPolicyNotFound
		}
		return PolicyResponse{}, err
	}
	return mapPolicyToResponse(*p), nil
}

// Deactivate retires a policy. Superseding works by creating a fresh policy
// and deactivating the old one; rows are never edited in place once
// assignments may reference them.
func (s *service) Deactivate(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return policyerrors.ErrInvalidPolicyID
	}
	if err := s.repo.DeactivatePolicy(ctx, companyID, id); err != nil {
		s.logger.Error("deactivate policy failed", zap.String("policy_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("policy deactivated", zap.String("policy_id", id))
	return nil
}

func (s *service) CreateAssignments(ctx context.Context, companyID, actorID string, req CreateAssignmentsRequest) ([]AssignmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, policyerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, policyerrors.ErrInvalidTargetID
	}
	policyID, err := uuid.Parse(req.PolicyID)
	if err != nil {
		return nil, policyerrors.ErrInvalidPolicyID
	}
	if _, err := s.repo.FindPolicyByIDAndCompany(ctx, companyID, req.PolicyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policyerrors.ErrPolicyNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	assignments := make([]PolicyAssignment, 0, len(req.Assignments))
	for _, t := range req.Assignments {
		scope, err := ScopeTypeFromValue(t.ScopeType)
		if err != nil {
			return nil, policyerrors.ErrUnknownScopeType
		}
		targetID := t.TargetID
		// Company-scoped assignments always bind to the caller's company.
		if scope == ScopeCompany {
			targetID = companyUUID.String()
		}
		targetUUID, err := uuid.Parse(targetID)
		if err != nil {
			return nil, policyerrors.ErrInvalidTargetID
		}
		assignments = append(assignments, PolicyAssignment{
			ID:         uuid.New(),
			PolicyID:   policyID,
			TargetID:   targetUUID,
			ScopeType:  scope,
			IsActive:   true,
			AssignedBy: actorUUID,
			AssignedAt: now,
		})
	}

	if err := s.repo.CreateAssignments(ctx, assignments); err != nil {
		s.logger.Error("create assignments persist failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("assignments created",
		zap.String("policy_id", req.PolicyID),
		zap.Int("count", len(assignments)),
	)
	resp := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapAssignmentToResponse(a)
	}
	return resp, nil
}

func (s *service) RevokeAssignment(ctx context.Context, companyID, assignmentID string) error {
	if _, err := uuid.Parse(assignmentID); err != nil {
		return policyerrors.ErrInvalidTargetID
	}
	if err := s.repo.RevokeAssignment(ctx, companyID, assignmentID, time.Now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policyerrors.ErrAssignmentNotFound
		}
		return err
	}
	s.logger.Info("assignment revoked", zap.String("assignment_id", assignmentID))
	return nil
}

func (s *service) GetAssignments(ctx context.Context, companyID string) ([]AssignmentResponse, error) {
	assignments, err := s.repo.FindAssignmentsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapAssignmentToResponse(a)
	}
	return resp, nil
}
