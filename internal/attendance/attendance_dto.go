package attendance

import "time"

type AttendanceResponse struct {
	ID              string  `json:"id"`
	MemberID        string  `json:"member_id"`
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	FirstClockIn    *string `json:"first_clock_in,omitempty"`
	LastClockOut    *string `json:"last_clock_out,omitempty"`
	WorkedMinutes   int     `json:"worked_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	BreakMinutes    int     `json:"break_minutes"`
	IsLate          bool    `json:"is_late"`
	LateMinutes     int     `json:"late_minutes"`
}

func mapToResponse(a DailyAttendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              a.ID.String(),
		MemberID:        a.MemberID.String(),
		Date:            a.Date.Format("2006-01-02"),
		Status:          string(a.Status),
		WorkedMinutes:   a.WorkedMinutes,
		OvertimeMinutes: a.OvertimeMinutes,
		BreakMinutes:    a.BreakMinutes,
		IsLate:          a.IsLate,
		LateMinutes:     a.LateMinutes,
	}
	if a.FirstClockIn != nil {
		v := a.FirstClockIn.Format(time.RFC3339)
		resp.FirstClockIn = &v
	}
	if a.LastClockOut != nil {
		v := a.LastClockOut.Format(time.RFC3339)
		resp.LastClockOut = &v
	}
	return resp
}
