package events

import "time"

const MemberCreatedTopic = "workforce.member.lifecycle.v1"

type MemberCreatedEvent struct {
	EventType  string    `json:"event_type"`
	MemberID   string    `json:"member_id"`
	CompanyID  string    `json:"company_id"`
	HireDate   string    `json:"hire_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
