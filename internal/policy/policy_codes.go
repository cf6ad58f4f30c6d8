package policy

import (
	"database/sql/driver"
	"fmt"
)

// PolicyTypeCode is persisted as a short code (PTC001...) so renaming the Go
// constant never touches stored rows. Unknown codes fail the scan instead of
// leaking an empty value into business logic.
type PolicyTypeCode string

const (
	TypeAnnualLeave    PolicyTypeCode = "ANNUAL_LEAVE"
	TypeMaternityLeave PolicyTypeCode = "MATERNITY_LEAVE"
	TypePaternityLeave PolicyTypeCode = "PATERNITY_LEAVE"
	TypeChildcareLeave PolicyTypeCode = "CHILDCARE_LEAVE"
	TypeFamilyCareLeave PolicyTypeCode = "FAMILY_CARE_LEAVE"
	TypeMenstrualLeave PolicyTypeCode = "MENSTRUAL_LEAVE"
	TypeStandardWork   PolicyTypeCode = "STANDARD_WORK"
	TypeBusinessTrip   PolicyTypeCode = "BUSINESS_TRIP"
	TypeOvertime       PolicyTypeCode = "OVERTIME"
	TypeNightWork      PolicyTypeCode = "NIGHT_WORK"
	TypeHolidayWork    PolicyTypeCode = "HOLIDAY_WORK"
)

var policyTypeCodeValues = map[PolicyTypeCode]string{
	TypeAnnualLeave:     "PTC001",
	TypeMaternityLeave:  "PTC002",
	TypePaternityLeave:  "PTC003",
	TypeChildcareLeave:  "PTC004",
	TypeFamilyCareLeave: "PTC005",
	TypeMenstrualLeave:  "PTC006",
	TypeStandardWork:    "PTC101",
	TypeBusinessTrip:    "PTC102",
	TypeOvertime:        "PTC103",
	TypeNightWork:       "PTC104",
	TypeHolidayWork:     "PTC105",
}

var policyTypeCodesByValue = func() map[string]PolicyTypeCode {
	m := make(map[string]PolicyTypeCode, len(policyTypeCodeValues))
	for k, v := range policyTypeCodeValues {
		m[v] = k
	}
	return m
}()

func PolicyTypeCodeFromValue(v string) (PolicyTypeCode, error) {
	if c, ok := policyTypeCodesByValue[v]; ok {
		return c, nil
	}
	// Accept the symbolic name too; external callers send either form.
	if _, ok := policyTypeCodeValues[PolicyTypeCode(v)]; ok {
		return PolicyTypeCode(v), nil
	}
	return "", fmt.Errorf("unknown policy type code: %q", v)
}

func (c PolicyTypeCode) CodeValue() string {
	return policyTypeCodeValues[c]
}

func (c PolicyTypeCode) Valid() bool {
	_, ok := policyTypeCodeValues[c]
	return ok
}

// BalanceDeductible reports whether a request of this type consumes a
// member balance at creation time. Business trips and work-time types never
// touch the ledger.
func (c PolicyTypeCode) BalanceDeductible() bool {
	return c == TypeAnnualLeave
}

// AttendanceRelevant reports whether an approved request of this type is
// projected into daily attendance rows.
func (c PolicyTypeCode) AttendanceRelevant() bool {
	switch c {
	case TypeAnnualLeave, TypeMaternityLeave, TypePaternityLeave,
		TypeChildcareLeave, TypeFamilyCareLeave, TypeMenstrualLeave,
		TypeBusinessTrip:
		return true
	default:
		return false
	}
}

func (c PolicyTypeCode) Value() (driver.Value, error) {
	v, ok := policyTypeCodeValues[c]
	if !ok {
		return nil, fmt.Errorf("unknown policy type code: %q", string(c))
	}
	return v, nil
}

func (c *PolicyTypeCode) Scan(src any) error {
	s, err := scanCodeString(src)
	if err != nil {
		return err
	}
	decoded, err := PolicyTypeCodeFromValue(s)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// PolicyScopeType tags an assignment with the kind of target it binds to.
// Specificity resolves MEMBER > MEMBER_POSITION > ORGANIZATION > COMPANY.
type PolicyScopeType string

const (
	ScopeCompany        PolicyScopeType = "COMPANY"
	ScopeOrganization   PolicyScopeType = "ORGANIZATION"
	ScopeMember         PolicyScopeType = "MEMBER"
	ScopeMemberPosition PolicyScopeType = "MEMBER_POSITION"
)

var scopeTypeValues = map[PolicyScopeType]string{
	ScopeCompany:        "PST001",
	ScopeOrganization:   "PST002",
	ScopeMember:         "PST003",
	ScopeMemberPosition: "PST004",
}

var scopeTypesByValue = func() map[string]PolicyScopeType {
	m := make(map[string]PolicyScopeType, len(scopeTypeValues))
	for k, v := range scopeTypeValues {
		m[v] = k
	}
	return m
}()

func ScopeTypeFromValue(v string) (PolicyScopeType, error) {
	if s, ok := scopeTypesByValue[v]; ok {
		return s, nil
	}
	if _, ok := scopeTypeValues[PolicyScopeType(v)]; ok {
		return PolicyScopeType(v), nil
	}
	return "", fmt.Errorf("unknown policy scope type: %q", v)
}

func (s PolicyScopeType) CodeValue() string {
	return scopeTypeValues[s]
}

func (s PolicyScopeType) Valid() bool {
	_, ok := scopeTypeValues[s]
	return ok
}

// Specificity returns the precedence rank; higher wins.
func (s PolicyScopeType) Specificity() int {
	switch s {
	case ScopeMember:
		return 4
	case ScopeMemberPosition:
		return 3
	case ScopeOrganization:
		return 2
	case ScopeCompany:
		return 1
	default:
		return 0
	}
}

func (s PolicyScopeType) Value() (driver.Value, error) {
	v, ok := scopeTypeValues[s]
	if !ok {
		return nil, fmt.Errorf("unknown policy scope type: %q", string(s))
	}
	return v, nil
}

func (s *PolicyScopeType) Scan(src any) error {
	str, err := scanCodeString(src)
	if err != nil {
		return err
	}
	decoded, err := ScopeTypeFromValue(str)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

func scanCodeString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into code", src)
	}
}
