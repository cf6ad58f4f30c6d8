package attendance

import (
	"database/sql/driver"
	"fmt"
)

// AttendanceStatus is persisted as a short code (AS001...). One status
// per day row; leave projections overwrite it, clock events never do.
type AttendanceStatus string

const (
	StatusNormalWork     AttendanceStatus = "NORMAL_WORK"
	StatusAnnualLeave    AttendanceStatus = "ANNUAL_LEAVE"
	StatusHalfDayAM      AttendanceStatus = "HALF_DAY_AM"
	StatusHalfDayPM      AttendanceStatus = "HALF_DAY_PM"
	StatusBusinessTrip   AttendanceStatus = "BUSINESS_TRIP"
	StatusMaternityLeave AttendanceStatus = "MATERNITY_LEAVE"
	StatusPaternityLeave AttendanceStatus = "PATERNITY_LEAVE"
	StatusChildcareLeave AttendanceStatus = "CHILDCARE_LEAVE"
	StatusFamilyCareLeave AttendanceStatus = "FAMILY_CARE_LEAVE"
	StatusMenstrualLeave AttendanceStatus = "MENSTRUAL_LEAVE"
	StatusAbsent         AttendanceStatus = "ABSENT"
)

var attendanceStatusValues = map[AttendanceStatus]string{
	StatusNormalWork:      "AS001",
	StatusAnnualLeave:     "AS002",
	StatusHalfDayAM:       "AS003",
	StatusHalfDayPM:       "AS004",
	StatusBusinessTrip:    "AS005",
	StatusMaternityLeave:  "AS006",
	StatusPaternityLeave:  "AS007",
	StatusChildcareLeave:  "AS008",
	StatusFamilyCareLeave: "AS009",
	StatusMenstrualLeave:  "AS010",
	StatusAbsent:          "AS011",
}

var attendanceStatusesByValue = func() map[string]AttendanceStatus {
	m := make(map[string]AttendanceStatus, len(attendanceStatusValues))
	for k, v := range attendanceStatusValues {
		m[v] = k
	}
	return m
}()

func AttendanceStatusFromValue(v string) (AttendanceStatus, error) {
	if s, ok := attendanceStatusesByValue[v]; ok {
		return s, nil
	}
	if _, ok := attendanceStatusValues[AttendanceStatus(v)]; ok {
		return AttendanceStatus(v), nil
	}
	return "", fmt.Errorf("unknown attendance status: %q", v)
}

func (s AttendanceStatus) CodeValue() string {
	return attendanceStatusValues[s]
}

func (s AttendanceStatus) Valid() bool {
	_, ok := attendanceStatusValues[s]
	return ok
}

func (s AttendanceStatus) Value() (driver.Value, error) {
	v, ok := attendanceStatusValues[s]
	if !ok {
		return nil, fmt.Errorf("unknown attendance status: %q", string(s))
	}
	return v, nil
}

func (s *AttendanceStatus) Scan(src any) error {
	str, err := scanCodeString(src)
	if err != nil {
		return err
	}
	decoded, err := AttendanceStatusFromValue(str)
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
