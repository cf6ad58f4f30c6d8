package request

import "time"

type CreateRequest struct {
	TypeCode string `json:"type_code" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
	StartAt  string `json:"start_at" binding:"required"`
	EndAt    string `json:"end_at" binding:"required"`
	Reason   string `json:"reason" binding:"max=1000"`

	// Optional resolution hints from the caller's session.
	MemberPositionID string   `json:"member_position_id"`
	OrganizationIDs  []string `json:"organization_ids"`
}

type RequestResponse struct {
	ID            string  `json:"id"`
	MemberID      string  `json:"member_id"`
	PolicyID      string  `json:"policy_id"`
	TypeCode      string  `json:"type_code"`
	ApprovalID    *string `json:"approval_id,omitempty"`
	Unit          string  `json:"unit"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	Reason        string  `json:"reason,omitempty"`
	DeductionDays string  `json:"deduction_days"`
	Status        string  `json:"status"`
	CompletedAt   *string `json:"completed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func mapRequestToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:            r.ID.String(),
		MemberID:      r.MemberID.String(),
		PolicyID:      r.PolicyID.String(),
		TypeCode:      string(r.TypeCode),
		Unit:          string(r.Unit),
		StartAt:       r.StartAt.Format(time.RFC3339),
		EndAt:         r.EndAt.Format(time.RFC3339),
		Reason:        r.Reason,
		DeductionDays: r.DeductionDays.String(),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApprovalID != nil {
		v := r.ApprovalID.String()
		resp.ApprovalID = &v
	}
	if r.CompletedAt != nil {
		v := r.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
