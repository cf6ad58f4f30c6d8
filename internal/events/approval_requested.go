package events

import "time"

const ApprovalRequestedTopic = "workforce.approval.requested.v1"

type ApprovalRequestedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	MemberID       string    `json:"member_id"`
	CompanyID      string    `json:"company_id"`
	PolicyTypeCode string    `json:"policy_type_code"`
	OccurredAt     time.Time `json:"occurred_at"`
}
