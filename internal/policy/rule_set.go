package policy

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	policyerrors "go-workforce/internal/policy/errors"

	"github.com/shopspring/decimal"
)

// RuleSet is the typed form of a policy's rule document. Every section is
// optional at the document level; each operation asks for the section it
// needs through an accessor and gets a validation error when it is missing.
type RuleSet struct {
	WorkTimeRule *WorkTimeRule `json:"workTimeRule,omitempty"`
	AuthRule     *AuthRule     `json:"authRule,omitempty"`
	BreakRule    *BreakRule    `json:"breakRule,omitempty"`
	LatenessRule *LatenessRule `json:"latenessRule,omitempty"`
	ClockOutRule *ClockOutRule `json:"clockOutRule,omitempty"`
	OvertimeRule *OvertimeRule `json:"overtimeRule,omitempty"`
	LeaveRule    *LeaveRule    `json:"leaveRule,omitempty"`
}

const (
	WorkTimeFixed    = "FIXED"
	WorkTimeFlexible = "FLEXIBLE"
	WorkTimeDeemed   = "DEEMED"
)

type WorkTimeRule struct {
	Type             string `json:"type"`
	WorkStartTime    string `json:"workStartTime"` // "HH:mm"
	WorkEndTime      string `json:"workEndTime"`
	FixedWorkMinutes int    `json:"fixedWorkMinutes"`
	CoreStartTime    string `json:"coreStartTime,omitempty"`
	CoreEndTime      string `json:"coreEndTime,omitempty"`
}

const (
	AuthTypeGPS  = "GPS"
	AuthTypeWifi = "WIFI"
	AuthTypeIP   = "IP"
)

type AuthRule struct {
	AllowedWorkLocationIDs []string `json:"allowedWorkLocationIds,omitempty"`
	RequiredAuthTypes      []string `json:"requiredAuthTypes,omitempty"`
	GPSRadiusMeters        int      `json:"gpsRadiusMeters,omitempty"`
	WifiSSIDs              []string `json:"wifiSsids,omitempty"`
	AllowedIPs             []string `json:"allowedIps,omitempty"`
}

type BreakRule struct {
	Type                         string `json:"type"` // AUTO, MANUAL, FIXED
	DefaultBreakMinutesFor8Hours int    `json:"defaultBreakMinutesFor8Hours,omitempty"`
	MandatoryBreakMinutes        int    `json:"mandatoryBreakMinutes,omitempty"`
	FixedBreakStart              string `json:"fixedBreakStart,omitempty"`
	FixedBreakEnd                string `json:"fixedBreakEnd,omitempty"`
}

type LatenessRule struct {
	GraceMinutes    int    `json:"graceMinutes"`
	DeductionMethod string `json:"deductionMethod,omitempty"`
}

type ClockOutRule struct {
	AllowDuplicateClockOut      bool   `json:"allowDuplicateClockOut,omitempty"`
	AllowClockOutWithoutClockIn bool   `json:"allowClockOutWithoutClockIn,omitempty"`
	AutoClockOutEnabled         bool   `json:"autoClockOutEnabled,omitempty"`
	LimitType                   string `json:"limitType,omitempty"`
	MaxHoursAfterWorkEnd        int    `json:"maxHoursAfterWorkEnd,omitempty"`
}

type OvertimeRule struct {
	MaxWeeklyOvertimeMinutes int             `json:"maxWeeklyOvertimeMinutes"`
	OvertimeRate             decimal.Decimal `json:"overtimeRate"`
	NightWorkRate            decimal.Decimal `json:"nightWorkRate"`
	HolidayWorkRate          decimal.Decimal `json:"holidayWorkRate"`
	HolidayOvertimeRate      decimal.Decimal `json:"holidayOvertimeRate"`
}

type AccrualTier struct {
	YearsOfService int     `json:"yearsOfService"`
	GrantDays      float64 `json:"grantDays"`
}

type LeaveRule struct {
	DefaultDays         *float64      `json:"defaultDays,omitempty"`
	RequestDeadlineDays *int          `json:"requestDeadlineDays,omitempty"`
	MinimumRequestUnit  string        `json:"minimumRequestUnit,omitempty"`
	AccrualType         string        `json:"accrualType,omitempty"` // ACCRUAL or MANUAL
	AccrualTiers        []AccrualTier `json:"leaveAccrualTiers,omitempty"`

	// First-year employees accrue monthly instead of upfront.
	FirstYearMonthlyAccrualDays *float64 `json:"firstYearMonthlyAccrualDays,omitempty"`
	FirstYearMaxAccrual         *int     `json:"firstYearMaxAccrual,omitempty"`

	CarryOverEnabled  *bool `json:"carryOverEnabled,omitempty"`
	CarryOverLimitDays *int `json:"carryOverLimitDays,omitempty"`
}

// ParseRuleSet decodes a rule document leniently: absent and unknown
// sections are tolerated so the schema can grow without breaking readers.
func ParseRuleSet(raw []byte) (*RuleSet, error) {
	if len(raw) == 0 {
		return &RuleSet{}, nil
	}
	var rs RuleSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("malformed rule document: %w", err)
	}
	return &rs, nil
}

var (
	minPremiumRate        = decimal.NewFromFloat(1.5)
	minHolidayOvertimeRate = decimal.NewFromFloat(2.0)
)

// Validate runs at policy write time. Read paths stay lenient; only admins
// creating or updating a policy hit these checks.
func (rs *RuleSet) Validate() error {
	if w := rs.WorkTimeRule; w != nil {
		switch w.Type {
		case WorkTimeFixed, WorkTimeFlexible, WorkTimeDeemed:
		default:
			return fmt.Errorf("workTimeRule.type must be FIXED, FLEXIBLE or DEEMED, got %q", w.Type)
		}
		for _, v := range []string{w.WorkStartTime, w.WorkEndTime} {
			if _, err := ParseClock(v); err != nil {
				return fmt.Errorf("workTimeRule: %w", err)
			}
		}
		if w.FixedWorkMinutes <= 0 {
			return fmt.Errorf("workTimeRule.fixedWorkMinutes must be positive")
		}
	}
	if o := rs.OvertimeRule; o != nil {
		if o.MaxWeeklyOvertimeMinutes <= 0 {
			return fmt.Errorf("overtimeRule.maxWeeklyOvertimeMinutes must be positive")
		}
		for name, rate := range map[string]decimal.Decimal{
			"overtimeRate":    o.OvertimeRate,
			"nightWorkRate":   o.NightWorkRate,
			"holidayWorkRate": o.HolidayWorkRate,
		} {
			if rate.LessThan(minPremiumRate) {
				return fmt.Errorf("overtimeRule.%s must be at least 1.5", name)
			}
		}
		if o.HolidayOvertimeRate.LessThan(minHolidayOvertimeRate) {
			return fmt.Errorf("overtimeRule.holidayOvertimeRate must be at least 2.0")
		}
	}
	if l := rs.LeaveRule; l != nil {
		if l.DefaultDays != nil && *l.DefaultDays < 0 {
			return fmt.Errorf("leaveRule.defaultDays must not be negative")
		}
		tiers := l.AccrualTiers
		for i := 1; i < len(tiers); i++ {
			if tiers[i].YearsOfService <= tiers[i-1].YearsOfService {
				return fmt.Errorf("leaveRule.leaveAccrualTiers must be strictly increasing by yearsOfService")
			}
		}
	}
	if lt := rs.LatenessRule; lt != nil && lt.GraceMinutes < 0 {
		return fmt.Errorf("latenessRule.graceMinutes must not be negative")
	}
	return nil
}

// Leave returns the leave section or a validation error when the calling
// operation requires it and the document omits it.
func (rs *RuleSet) Leave() (*LeaveRule, error) {
	if rs.LeaveRule == nil {
		return nil, policyerrors.ErrMissingLeaveRule
	}
	return rs.LeaveRule, nil
}

func (rs *RuleSet) WorkTime() (*WorkTimeRule, error) {
	if rs.WorkTimeRule == nil {
		return nil, policyerrors.ErrMissingWorkTimeRule
	}
	return rs.WorkTimeRule, nil
}

func (rs *RuleSet) Overtime() (*OvertimeRule, error) {
	if rs.OvertimeRule == nil {
		return nil, policyerrors.ErrMissingOvertimeRule
	}
	return rs.OvertimeRule, nil
}

// GrantDaysFor picks the accrual tier for a member's completed years of
// service. Tiers are matched on the highest yearsOfService not exceeding
// the tenure; below the lowest tier the default days apply.
func (l *LeaveRule) GrantDaysFor(yearsOfService int) float64 {
	granted := 0.0
	if l.DefaultDays != nil {
		granted = *l.DefaultDays
	}
	tiers := append([]AccrualTier(nil), l.AccrualTiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].YearsOfService < tiers[j].YearsOfService })
	for _, t := range tiers {
		if yearsOfService >= t.YearsOfService {
			granted = t.GrantDays
		}
	}
	return granted
}

// ParseClock parses an "HH:mm" wall-clock value.
func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q, expected HH:mm", v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
