package balance

type BalanceResponse struct {
	ID             string  `json:"id"`
	TypeCode       string  `json:"type_code"`
	Year           int     `json:"year"`
	TotalGranted   string  `json:"total_granted"`
	TotalUsed      string  `json:"total_used"`
	Remaining      string  `json:"remaining"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
	IsPaid         bool    `json:"is_paid"`
	IsUsable       bool    `json:"is_usable"`
}

func mapBalanceToResponse(b MemberBalance) BalanceResponse {
	resp := BalanceResponse{
		ID:           b.ID.String(),
		TypeCode:     string(b.TypeCode),
		Year:         b.Year,
		TotalGranted: b.TotalGranted.String(),
		TotalUsed:    b.TotalUsed.String(),
		Remaining:    b.Remaining.String(),
		IsPaid:       b.IsPaid,
		IsUsable:     b.IsUsable,
	}
	if b.ExpirationDate != nil {
		v := b.ExpirationDate.Format("2006-01-02")
		resp.ExpirationDate = &v
	}
	return resp
}
