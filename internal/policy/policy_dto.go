package policy

import "time"

type CreatePolicyRequest struct {
	TypeCode      string `json:"type_code" binding:"required"`
	Name          string `json:"name" binding:"required,max=200"`
	RuleDetails   string `json:"rule_details" binding:"required"`
	IsPaid        bool   `json:"is_paid"`
	EffectiveFrom string `json:"effective_from" binding:"required"`
	EffectiveTo   string `json:"effective_to"`
}

type AssignmentTarget struct {
	TargetID  string `json:"target_id" binding:"required,uuid"`
	ScopeType string `json:"scope_type" binding:"required"`
}

type CreateAssignmentsRequest struct {
	PolicyID    string             `json:"policy_id" binding:"required,uuid"`
	Assignments []AssignmentTarget `json:"assignments" binding:"required,min=1,dive"`
}

type PolicyResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	TypeCode      string  `json:"type_code"`
	Name          string  `json:"name"`
	RuleDetails   string  `json:"rule_details"`
	IsPaid        bool    `json:"is_paid"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
	IsActive      bool    `json:"is_active"`
}

type AssignmentResponse struct {
	ID         string `json:"id"`
	PolicyID   string `json:"policy_id"`
	TargetID   string `json:"target_id"`
	ScopeType  string `json:"scope_type"`
	IsActive   bool   `json:"is_active"`
	AssignedBy string `json:"assigned_by"`
	AssignedAt string `json:"assigned_at"`
}

func mapPolicyToResponse(p Policy) PolicyResponse {
	resp := PolicyResponse{
		ID:            p.ID.String(),
		CompanyID:     p.CompanyID.String(),
		TypeCode:      string(p.TypeCode),
		Name:          p.Name,
		RuleDetails:   p.RuleDetails,
		IsPaid:        p.IsPaid,
		EffectiveFrom: p.EffectiveFrom.Format("2006-01-02"),
		IsActive:      p.IsActive,
	}
	if p.EffectiveTo != nil {
		v := p.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}

func mapAssignmentToResponse(a PolicyAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID.String(),
		PolicyID:   a.PolicyID.String(),
		TargetID:   a.TargetID.String(),
		ScopeType:  string(a.ScopeType),
		IsActive:   a.IsActive,
		AssignedBy: a.AssignedBy.String(),
		AssignedAt: a.AssignedAt.Format(time.RFC3339),
	}
}
