package request

import (
	"database/sql/driver"
	"fmt"
)

// RequestStatus is persisted as a short code (RS001...), same scheme as
// the policy codes. Unknown codes fail the scan.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCanceled  RequestStatus = "CANCELED"
	StatusCompleted RequestStatus = "COMPLETED"
)

var requestStatusValues = map[RequestStatus]string{
	StatusPending:   "RS001",
	StatusApproved:  "RS002",
	StatusRejected:  "RS003",
	StatusCanceled:  "RS004",
	StatusCompleted: "RS005",
}

var requestStatusesByValue = func() map[string]RequestStatus {
	m := make(map[string]RequestStatus, len(requestStatusValues))
	for k, v := range requestStatusValues {
		m[v] = k
	}
	return m
}()

func RequestStatusFromValue(v string) (RequestStatus, error) {
	if s, ok := requestStatusesByValue[v]; ok {
		return s, nil
	}
	if _, ok := requestStatusValues[RequestStatus(v)]; ok {
		return RequestStatus(v), nil
	}
	return "", fmt.Errorf("unknown request status: %q", v)
}

func (s RequestStatus) CodeValue() string {
	return requestStatusValues[s]
}

func (s RequestStatus) Valid() bool {
	_, ok := requestStatusValues[s]
	return ok
}

// Terminal statuses never transition again; a decision arriving for one
// is a replay and must be ignored.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCanceled, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s RequestStatus) Value() (driver.Value, error) {
	v, ok := requestStatusValues[s]
	if !ok {
		return nil, fmt.Errorf("unknown request status: %q", string(s))
	}
	return v, nil
}

func (s *RequestStatus) Scan(src any) error {
	str, err := scanCodeString(src)
	if err != nil {
		return err
	}
	decoded, err := RequestStatusFromValue(str)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// RequestUnit describes how much of a day a request covers.
type RequestUnit string

const (
	UnitDay       RequestUnit = "DAY"
	UnitHalfDayAM RequestUnit = "HALF_DAY_AM"
	UnitHalfDayPM RequestUnit = "HALF_DAY_PM"
	UnitTimeOff   RequestUnit = "TIME_OFF"
)

var requestUnitValues = map[RequestUnit]string{
	UnitDay:       "RU001",
	UnitHalfDayAM: "RU002",
	UnitHalfDayPM: "RU003",
	UnitTimeOff:   "RU004",
}

var requestUnitsByValue = func() map[string]RequestUnit {
	m := make(map[string]RequestUnit, len(requestUnitValues))
	for k, v := range requestUnitValues {
		m[v] = k
	}
	return m
}()

func RequestUnitFromValue(v string) (RequestUnit, error) {
	if u, ok := requestUnitsByValue[v]; ok {
		return u, nil
	}
	if _, ok := requestUnitValues[RequestUnit(v)]; ok {
		return RequestUnit(v), nil
	}
	return "", fmt.Errorf("unknown request unit: %q", v)
}

func (u RequestUnit) CodeValue() string {
	return requestUnitValues[u]
}

func (u RequestUnit) Valid() bool {
	_, ok := requestUnitValues[u]
	return ok
}

// HalfDay reports whether the unit covers half of a single day.
func (u RequestUnit) HalfDay() bool {
	return u == UnitHalfDayAM || u == UnitHalfDayPM
}

func (u RequestUnit) Value() (driver.Value, error) {
	v, ok := requestUnitValues[u]
	if !ok {
		return nil, fmt.Errorf("unknown request unit: %q", string(u))
	}
	return v, nil
}

func (u *RequestUnit) Scan(src any) error {
	str, err := scanCodeString(src)
	if err != nil {
		return err
	}
	decoded, err := RequestUnitFromValue(str)
	if err != nil {
		return err
	}
	*u = decoded
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
