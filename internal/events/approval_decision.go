package events

import "time"

const ApprovalDecisionTopic = "workforce.approval.completed.v1"

// Decision states emitted by the approval service.
const (
	DecisionApproved  = "APPROVED"
	DecisionRejected  = "REJECTED"
	DecisionDiscarded = "DISCARDED"
)

type ApprovalDecisionEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	ApprovalID  string    `json:"approval_id"`
	State       string    `json:"state"`
	CompletedAt time.Time `json:"completed_at"`
}
